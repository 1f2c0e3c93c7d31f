package main

import (
	"os"

	"github.com/ThomasCrouzet/ambari-discovery/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
