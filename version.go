package spiritual

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release version of Spiritual.
var Version = strings.TrimSpace(rawVersion)
