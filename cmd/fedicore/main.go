// Package main is the entry point of the fedicore node.
package main

import "github.com/turtacn/fedicore/cmd/cli"

func main() {
	cli.Execute()
}
