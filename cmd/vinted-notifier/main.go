// Package main is the entry point for vinted-notifier.
package main

import (
	"os"

	"github.com/vinted-tools/vinted-notifier/cmd/vinted-notifier/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
