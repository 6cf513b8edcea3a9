package main

import (
	"os"

	"github.com/seo-optimizer/seo-analyzer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
