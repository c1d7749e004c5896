// Package main is the entry point of pktsim, a command-line tool that runs
// packet transmission scenarios.
package main

import "github.com/sarchlab/pktflow/pktsim/cmd"

func main() {
	cmd.Execute()
}
