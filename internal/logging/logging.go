// Package logging provides the structured logger the solver, generator,
// and CLI share, logging structured logrus.Fields at decision points
// rather than calling fmt/log directly. The solver accepts an injected
// Logger through solver.Options; the generator has no injection point and
// always logs through Default.
package logging

import "github.com/sirupsen/logrus"

// Logger is the subset of *logrus.Logger the core uses. Library code
// accepts this interface so a host can inject its own logrus.Logger, or
// nothing at all (Default is used), without the core importing any
// host-specific sink.
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// Default returns the package-wide fallback logger used whenever a caller
// passes a nil Logger. It is a *logrus.Logger so hosts that do want to
// control verbosity can still reach it via logrus.StandardLogger().
func Default() Logger {
	return logrus.StandardLogger()
}

// Or returns l if non-nil, otherwise Default(). Every exported
// constructor in solver/generator/shapes that accepts a Logger calls this
// once so internal code never needs a nil check.
func Or(l Logger) Logger {
	if l == nil {
		return Default()
	}
	return l
}
