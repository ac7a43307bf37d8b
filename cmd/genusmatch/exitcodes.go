package main

// Exit codes returned by genusmatch.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable config, invalid values)
	ExitDataError   = 3 // Data error (missing or unreadable input files)
)
