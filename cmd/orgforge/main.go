package main

import (
	"github.com/orgforge/orgforge/pkg/cli"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

func main() {
	om := cli.OrgforgeMain{
		Version: Version,
	}

	om.Main()
}
