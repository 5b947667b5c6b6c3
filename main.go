// file: main.go
// version: 2.0.0
// guid: 1d2e3f4a-5b6c-7d8e-9f0a-1b2c3d4e5f60

package main

import (
	"fmt"
	"os"

	"github.com/obodeflix/obodeflix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
