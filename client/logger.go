package client

// Logger receives non-fatal warnings (quality substitution, dual-file
// fallback). The zero configuration discards them.
type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}
