// Package skinlog holds build metadata shared by the skinlog binaries.
package skinlog

// Version is the skinlog release version.
const Version = "0.3.0"
