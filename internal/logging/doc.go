// Package logging builds the logr.Logger used throughout the CLI.
package logging
