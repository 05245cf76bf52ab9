// Package agentloop provides the version information for agentloop.
package agentloop

// Version is the current version of agentloop.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
