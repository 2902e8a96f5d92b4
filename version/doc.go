// Package version exposes build metadata for the dagdeps binary.
//
// Values are set at link time and fall back to the VCS stamp Go embeds:
//
//	go build -ldflags "-X github.com/kbukum/dagdeps/version.Version=1.4.0" ./cmd/dagdeps
package version
