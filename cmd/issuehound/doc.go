// Package issuehound provides the command-line interface for the issuehound
// tool. It configures subcommands (jira, confluence, rules, browse, etc.),
// parses flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/issuehound/issuehound/cmd/issuehound"
//	func main() { issuehound.Execute() }
package issuehound
