// Package compat checks that a ClickHouse server understands the settings
// clause produced by the compiler.
package compat

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// MinServerVersion is the first ClickHouse release with the
// additional_table_filters setting.
const MinServerVersion = "22.7"

// UnsupportedVersionError reports a server too old for the settings clause
type UnsupportedVersionError struct {
	Server  string
	Minimum string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("ClickHouse %s does not support additional_table_filters (requires %s or newer)", e.Server, e.Minimum)
}

// CheckServerVersion returns an error when serverVersion predates
// MinServerVersion. An empty version is not checked.
func CheckServerVersion(serverVersion string) error {
	if serverVersion == "" {
		return nil
	}

	server, err := version.NewVersion(serverVersion)
	if err != nil {
		return fmt.Errorf("invalid server version %q: %w", serverVersion, err)
	}
	minimum := version.Must(version.NewVersion(MinServerVersion))

	if server.LessThan(minimum) {
		return &UnsupportedVersionError{Server: serverVersion, Minimum: MinServerVersion}
	}
	return nil
}
