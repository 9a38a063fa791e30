package utils

const (
	// ApplicationName is the binary and configuration namespace.
	ApplicationName = "trusttree"
	// ConfigFileName is the local configuration file looked up in the working directory.
	ConfigFileName = ".trusttree.yaml"
	// GlobalConfigDirectoryName is the directory under the home directory holding global configuration.
	GlobalConfigDirectoryName = ".trusttree"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

const (
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal errors returned by the CLI.
	ApplicationExecutionFailedMessage = "trusttree execution failed"
)
