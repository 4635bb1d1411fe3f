// Package common provides the ambient logging and version utilities shared by
// the attach client and its host binaries.
package common

import (
	"os/exec"
	"strings"
	"sync"
)

// defaultVersion is used whenever a git describe can't be resolved (no repo,
// no tags, git missing from PATH).
const defaultVersion = "0.1.0"

var (
	versionOnce   sync.Once
	versionCached string
)

// Version returns the running build's version, resolved once per process
// from "git describe" and cached afterwards.
func Version() string {
	versionOnce.Do(func() {
		versionCached = detectVersion()
	})
	return versionCached
}

func detectVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--dirty").Output()
	if err != nil {
		return defaultVersion
	}
	v := strings.TrimSpace(string(out))
	if v == "" {
		return defaultVersion
	}
	return v
}
