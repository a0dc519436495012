package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"tasklist/internal/commands"
)

// Populated at build time via -ldflags.
var version = "dev"

func build() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if mv := info.Main.Version; mv != "" && mv != "(devel)" {
			return mv
		}
	}
	return version
}

func main() {
	if err := commands.New(build(), os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tasklist: %v\n", err)
		os.Exit(1)
	}
}
