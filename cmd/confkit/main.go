// FILE: configurator/cmd/confkit/main.go
// confkit reads, queries, edits and converts INI, JSON, TOML and YAML configuration files.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errAbsent) {
			fmt.Fprintln(os.Stderr, "confkit:", err)
		}
		os.Exit(1)
	}
}
