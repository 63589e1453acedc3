// internal/commands/root.go
package spaneval

import (
	"fmt"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/mwiater/spaneval/internal/appconfig"
	"github.com/mwiater/spaneval/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "spaneval",
	Short:        "spaneval evaluates a majority-class span recommender on annotated corpora",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := ensureConfigLoaded()
		if err != nil {
			return err
		}

		for _, name := range []string{"debug", "jsonMode", "verbose"} {
			if !cmd.Flags().Changed(name) {
				val := viper.GetBool(name)
				_ = cmd.Flags().Set(name, strconv.FormatBool(val))
			}
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if loaded {
			cfg.ConfigPath = viper.ConfigFileUsed()
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath(), viper.GetBool("verbose")); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.LogEvent("command=%s config=%s", cmd.CommandPath(), cfg.ConfigPath)

		if cfg.Debug {
			pp.Fprintln(cmd.ErrOrStderr(), cfg)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	flags.Bool("debug", false, "dump configuration and models to stderr")
	flags.Bool("jsonMode", false, "print results as JSON")
	flags.Bool("verbose", false, "mirror log lines to stderr")
	flags.String("logFile", "", "path to the log file")
	flags.String("export", "", "write the run summary to this file (.json, .yaml or .yml)")
	flags.String("model", "", "path of the model file written by train and read by predict")
	flags.String("corpus", "", "path to the annotated corpus")
	flags.String("format", "", "corpus format: jsonl, json or conll (default: from extension)")
	flags.Int("maxRecommendations", 0, "candidate labels written per span (0 = default)")

	bindFlags(flags, map[string]string{
		"debug":              "debug",
		"jsonMode":           "jsonMode",
		"verbose":            "verbose",
		"logFile":            "logFile",
		"export":             "export",
		"model":              "model",
		"corpus":             "corpus.path",
		"format":             "corpus.format",
		"maxRecommendations": "recommender.maxRecommendations",
	})
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file and reports whether one was found.
// A missing file is not an error; flags and defaults apply.
func ensureConfigLoaded() (bool, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load config: %w", err)
	}
	return true, nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		return &appconfig.Config{}
	}
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
