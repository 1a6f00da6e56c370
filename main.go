// Package main is the entry point for the retype CLI.
package main

import "retype.dev/pkg/retype/cmd"

func main() {
	cmd.Execute()
}
