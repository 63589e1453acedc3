package spaneval

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlags binds each flag to its viper key so flags override config values.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}
