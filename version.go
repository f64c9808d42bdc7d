package layerdisplay

import _ "embed"

// Version is the module version, read from the VERSION file.
//
//go:embed VERSION
var Version string
