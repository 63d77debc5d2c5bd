package scanner

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreMatcher wraps a gitignore pattern matcher.
type IgnoreMatcher struct {
	gi *gitignore.GitIgnore
}

// NewIgnoreMatcher loads .gitignore from the project root.
// If no .gitignore file is found, the matcher accepts everything.
func NewIgnoreMatcher(root string) *IgnoreMatcher {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return &IgnoreMatcher{}
	}
	gi, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return &IgnoreMatcher{}
	}
	return &IgnoreMatcher{gi: gi}
}

// Match returns true if the given relative path should be ignored.
func (m *IgnoreMatcher) Match(relPath string) bool {
	if m.gi == nil {
		return false
	}
	return m.gi.MatchesPath(relPath)
}

// hardIgnored contains paths that are always skipped regardless of .gitignore.
var hardIgnored = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	".git":         true,
	"dist":         true,
	"build":        true,
	".buildmind":   true,
	".next":        true,
	".cache":       true,
	"coverage":     true,
	".nyc_output":  true,
	"out":          true,
	"tmp":          true,
}

// HardIgnore returns true if the directory name is always excluded.
func HardIgnore(name string) bool {
	return hardIgnored[name]
}

// sourceExtensions lists the file types the structure extractor
// understands. Everything else is skipped.
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
	".mjs": true,
	".cjs": true,
}

// SourceFile returns true for files the extractor can index.
func SourceFile(name string) bool {
	if sourceExtensions[filepath.Ext(name)] {
		// Minified bundles match by extension but are noise.
		return !isMinified(name)
	}
	return false
}

func isMinified(name string) bool {
	base := name[:len(name)-len(filepath.Ext(name))]
	return filepath.Ext(base) == ".min"
}

// SkipFile returns true for files we should never index.
func SkipFile(name string) bool {
	switch name {
	case "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "bun.lockb":
		return true
	}
	return !SourceFile(name)
}
