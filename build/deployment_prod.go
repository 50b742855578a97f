//go:build !dev
// +build !dev

package build

// Deployment specifies a production build.
const Deployment = Production

// LogLevel specifies a default log level of info.
const LogLevel = "info"
