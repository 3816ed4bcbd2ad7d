// Package main hosts the subpost CLI.
//
// Each post kind has one command: vocab, grammar and humor. A command loads
// the configuration, builds the model and shortener clients, and hands the
// run to internal/workflow. Review prompts go to the terminal unless --yes
// is set or stdin is not a terminal. The config command group scaffolds and
// prints the configuration.
package main
