package config

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Version is stamped at build time with -ldflags "-X comparador/internal/config.Version=..."
var Version string

// GetVersion resolves the running version: build stamp, then APP_VERSION,
// then the VERSION file plus git commit count.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	if env := os.Getenv("APP_VERSION"); env != "" {
		return env
	}

	base := readVersionFile("VERSION", "../VERSION")
	if n := gitCommitCount(); n > 0 {
		return base + "." + strconv.Itoa(n)
	}
	return base
}

func readVersionFile(paths ...string) string {
	for _, p := range paths {
		if content, err := os.ReadFile(p); err == nil {
			if v := strings.TrimSpace(string(content)); v != "" {
				return v
			}
		}
	}
	return "0.1.0"
}

func gitCommitCount() int {
	out, err := exec.Command("git", "rev-list", "--count", "HEAD").Output()
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0
	}
	return n
}
