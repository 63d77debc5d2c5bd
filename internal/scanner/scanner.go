// Package scanner walks a project tree and feeds recognised source
// files into the code structure index.
package scanner

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/buildmind/buildmind/internal/memory"
)

// ScannedFile records one indexed file.
type ScannedFile struct {
	Path        string
	ContentHash string
	Extraction  memory.Extraction
}

// ScanResult holds the output of a full project scan.
type ScanResult struct {
	Files     []ScannedFile
	Structure memory.CodeStructure
	Errors    []error
}

// Fingerprint returns a stable hash over all scanned file hashes, used
// as the project's codebase fingerprint.
func (r ScanResult) Fingerprint() string {
	h := sha256.New()
	for _, f := range r.Files {
		fmt.Fprintf(h, "%s:%s\n", f.Path, f.ContentHash)
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// ScanOptions controls scanner behaviour.
type ScanOptions struct {
	Root string
	// Base is merged into rather than replaced, so symbols indexed from
	// generated responses survive a rescan.
	Base memory.CodeStructure
	// Progress, when set, is called once per indexed file.
	Progress func(path string)
}

// Scan walks the project tree and extracts declarations and imports
// from every recognised source file. It does not write to the context
// store; that is the caller's responsibility.
func Scan(opts ScanOptions) ScanResult {
	root := opts.Root
	ignore := NewIgnoreMatcher(root)

	result := ScanResult{Structure: opts.Base}
	if result.Structure.Functions == nil {
		result.Structure = memory.DefaultCodeStructure()
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil // Skip unreadable entries.
		}

		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}

		if d.IsDir() {
			if HardIgnore(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if SkipFile(d.Name()) {
			return nil
		}
		if ignore.Match(rel) {
			return nil
		}

		sf, scanErr := scanOne(root, rel)
		if scanErr != nil {
			result.Errors = append(result.Errors, scanErr)
			return nil
		}

		result.Structure.MergeFile(rel, sf.content)
		result.Files = append(result.Files, sf.ScannedFile)
		if opts.Progress != nil {
			opts.Progress(rel)
		}
		return nil
	})
	if err != nil {
		result.Errors = append(result.Errors, err)
	}

	return result
}

type scannedContent struct {
	ScannedFile
	content string
}

func scanOne(root, relPath string) (scannedContent, error) {
	content, err := os.ReadFile(filepath.Join(root, relPath))
	if err != nil {
		return scannedContent{}, fmt.Errorf("scanner: read %s: %w", relPath, err)
	}

	return scannedContent{
		ScannedFile: ScannedFile{
			Path:        relPath,
			ContentHash: fmt.Sprintf("%x", sha256.Sum256(content)),
			Extraction:  memory.ExtractStructure(string(content)),
		},
		content: string(content),
	}, nil
}

// ScanFile scans a single file relative to root. It returns nil when
// the file is skipped (ignored directory, unrecognised type, or
// gitignored).
func ScanFile(root, relPath string, ignore *IgnoreMatcher) (*ScannedFile, string, error) {
	for _, part := range strings.Split(filepath.Dir(relPath), string(filepath.Separator)) {
		if HardIgnore(part) {
			return nil, "", nil
		}
	}

	if SkipFile(filepath.Base(relPath)) {
		return nil, "", nil
	}
	if ignore != nil && ignore.Match(relPath) {
		return nil, "", nil
	}

	sf, err := scanOne(root, relPath)
	if err != nil {
		return nil, "", err
	}
	return &sf.ScannedFile, sf.content, nil
}

// FindProjectRoot walks up from startDir looking for a project root marker.
func FindProjectRoot(startDir string) (string, error) {
	markers := []string{".git", "package.json", ".buildmind"}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root.
			return startDir, nil // Fall back to cwd.
		}
		dir = parent
	}
}
