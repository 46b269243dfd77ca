package main

import (
	"os"

	nexuscmder "github.com/papercomputeco/nexus/cmd/nexus"
)

func main() {
	cmd := nexuscmder.NewNexusCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
