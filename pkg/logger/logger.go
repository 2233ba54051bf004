// Package logger builds the structured logger every subsystem in this
// module threads through its constructors, matching the rest of the
// codebase's use of zap over ad hoc fmt.Printf logging.
package logger

import "go.uber.org/zap"

// New creates a production zap logger scoped to service. If the underlying
// zap configuration fails to build (it only does so for invalid static
// config, never at runtime), a no-op logger is returned instead of failing
// startup over logging.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar().With("service", service)
}
