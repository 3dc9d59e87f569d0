// Command midnight-hello runs the hello world demo: an interactive CLI and a web front end.
//
// @title        Midnight Hello World API
// @version      1.0
// @description  Web front end API: wallet connection, contract message and indexer lookups.
// @BasePath     /
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
