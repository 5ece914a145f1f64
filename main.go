package main

import (
	"os"

	"github.com/bisegni/jframe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
