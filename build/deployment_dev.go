//go:build dev
// +build dev

package build

// Deployment specifies a development build.
const Deployment = Development

// LogLevel specifies a default log level of debug for development builds, so
// that unit tests run with the stdlog tag print everything useful.
const LogLevel = "debug"
