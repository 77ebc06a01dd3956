// Package config provides configuration loading and defaults for depscope.
package config

// DefaultConfigDir is the default location for depscope configuration.
const DefaultConfigDir = "~/.config/depscope"

// DefaultDBName is the filename for the scan-history SQLite database.
const DefaultDBName = "depscope.db"

// DefaultTreeName is the default filename for a saved tree.
const DefaultTreeName = "filetree.json"

// DefaultSDKPackage is the package name the scorer treats as SDK-classified.
const DefaultSDKPackage = "@modelcontextprotocol/sdk"

// DefaultExcludes are the default user-level exclusion glob patterns.
// Version-control metadata and the package cache are excluded unconditionally
// by the engine; these only cover common build noise.
var DefaultExcludes = []string{
	"dist",
	"build",
	"coverage",
	"**/*.min.js",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultWatch holds the default file-watching preferences.
var DefaultWatch = Watch{
	DebounceMs: 300,
}
