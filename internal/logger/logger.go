package logger

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// New returns a logger configured with the provided level. Each process
// constructs its own logger in main and passes it down; there is no
// package-level instance.
func New(level string) *Logger {
	return newZapLogger(level)
}
