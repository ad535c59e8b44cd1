// Package main provides the entry point for the unify CLI tool.
package main

import "github.com/agentstation/unify/cmd/unify/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
