// Package version reports the build version of the tripcart binaries.
//
// Version and BuildTime are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/tripcart/version.Version=1.2.0" ./cmd/tripcart
//
// The commit and dirty flag come from the VCS stamp the toolchain embeds.
package version
