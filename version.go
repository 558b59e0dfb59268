package gridplan

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the release version, read from the VERSION file.
var Version = strings.TrimSpace(version)
