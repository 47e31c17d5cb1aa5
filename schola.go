// Package schola bundles shared constants for all schola tools.
package schola

const (
	// AppName is used for data directories and the user agent.
	AppName = "schola"
	// Version of the toolkit.
	Version = "0.2.1"
)

// UserAgent is sent with every outgoing API request.
var UserAgent = AppName + "/" + Version
