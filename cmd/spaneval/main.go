// cmd/spaneval/main.go
package main

import (
	spaneval "github.com/mwiater/spaneval/internal/commands"
)

// Build-time variables, set with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = spaneval.SetVersionInfo
	executeCmd     = spaneval.Execute
)

// main starts the spaneval CLI application by delegating to the
// cobra root command defined in the spaneval package.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
