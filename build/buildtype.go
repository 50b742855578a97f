package build

// DeploymentType is the deployment the binary was compiled for. It is chosen
// with the dev build tag.
type DeploymentType byte

const (
	// Production is the deployment of regular builds.
	Production DeploymentType = iota

	// Development is compiled with the dev tag. Together with the stdlog
	// tag it makes unit tests print their log output.
	Development
)

var deploymentNames = [...]string{
	Production:  "production",
	Development: "development",
}

// String returns the name of the deployment.
func (d DeploymentType) String() string {
	if int(d) < len(deploymentNames) {
		return deploymentNames[d]
	}

	return "unknown"
}

// LogType is where log output goes. It is chosen with the stdlog and nolog
// build tags.
type LogType byte

const (
	// LogTypeNone drops all log output.
	LogTypeNone LogType = iota

	// LogTypeStdOut writes log output to stdout only.
	LogTypeStdOut

	// LogTypeDefault writes log output to stdout and the log file.
	LogTypeDefault
)

var logTypeNames = [...]string{
	LogTypeNone:    "none",
	LogTypeStdOut:  "stdout",
	LogTypeDefault: "default",
}

// String returns the name of the log type.
func (t LogType) String() string {
	if int(t) < len(logTypeNames) {
		return logTypeNames[t]
	}

	return "unknown"
}
