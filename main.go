package main

import (
	"os"

	"github.com/embedchat/widget-runtime/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
