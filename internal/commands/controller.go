// Package commands contains the CLI commands for the application.
package commands

// Flags holds the global CLI flags shared by every command.
type Flags struct {
	LogLevel string
}

// Controller dispatches CLI commands.
type Controller struct {
	Flags *Flags
}
