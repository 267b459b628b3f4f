// Package misc keeps build time program identity.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set at link time with -X.
var (
	version = "dev"
	gitHash = "unknown"
	appName = ""
)

// GetAppName returns program name, either set at build time or derived from
// the executable.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	name := filepath.Base(os.Args[0])
	if strings.HasSuffix(name, ".test") || strings.HasSuffix(name, ".test.exe") {
		return "sitec"
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if len(name) == 0 || name == "main" {
		return "sitec"
	}
	return name
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
