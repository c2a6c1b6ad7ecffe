package commands

// Exit codes returned by the logwindow binary.
const (
	ExitOK          = 0
	ExitInputFailed = 1
	ExitFatal       = 2
)

// ExitCode is set by commands to indicate the result
var ExitCode = ExitOK
