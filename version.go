package supervisor

// Version is the current version of the go-supervisor library
const Version = "1.0.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version
	Version string
	// APIVersion is the daemon RPC API version the typed wrappers follow
	APIVersion string
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version:    Version,
		APIVersion: "3.0",
	}
}
