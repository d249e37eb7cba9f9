package output

import "io"

// LoggerInterface defines the logging interface for services.
// This allows for dependency injection and easier testing.
type LoggerInterface interface {
	// Diagnostics (stderr)
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Hint(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Success(format string, args ...interface{})

	// Results (stdout)
	Println(format string, args ...interface{})
	Bold(format string, args ...interface{})
	JSON(v interface{}) error

	// Configuration methods
	SetVerbose(verbose bool)
	SetNoColor(noColor bool)
	SetJSONMode(jsonMode bool)
	IsVerbose() bool
	IsJSONMode() bool

	// Writer access
	Writer() io.Writer
	ErrWriter() io.Writer
}

// Verify that Logger implements LoggerInterface at compile time.
var _ LoggerInterface = (*Logger)(nil)
