// Command inkdash runs an e-ink dashboard.
package main

import (
	"os"
	_ "time/tzdata"

	"github.com/custodia-labs/inkdash/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
