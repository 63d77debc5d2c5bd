package memory

import (
	"fmt"
	"regexp"
	"unicode"
)

// Extraction is the structured result of one scan over generated source
// text. It is a plain value so callers can merge or discard it freely.
type Extraction struct {
	Functions  []string
	Components []string
	Imports    []string
}

var (
	declPattern = regexp.MustCompile(`\b(function|const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

	// import X from 'mod', import { a, b } from 'mod', import 'mod'
	importFromPattern = regexp.MustCompile(`import\s+[^;'"]*?from\s+['"]([^'"]+)['"]`)
	importBarePattern = regexp.MustCompile(`import\s+['"]([^'"]+)['"]`)
)

// ExtractStructure scans file content for declaration-like tokens and
// import statements. This is pattern matching, not parsing: false
// positives and negatives are expected, and malformed input yields a
// (possibly empty) result rather than an error.
func ExtractStructure(content string) Extraction {
	var ext Extraction
	seenDecl := map[string]bool{}

	for _, m := range declPattern.FindAllStringSubmatch(content, -1) {
		name := m[2]
		if seenDecl[name] {
			continue
		}
		seenDecl[name] = true
		ext.Functions = append(ext.Functions, name)
		if isCapitalized(name) {
			ext.Components = append(ext.Components, name)
		}
	}

	seenImport := map[string]bool{}
	for _, m := range importFromPattern.FindAllStringSubmatch(content, -1) {
		if !seenImport[m[1]] {
			seenImport[m[1]] = true
			ext.Imports = append(ext.Imports, m[1])
		}
	}
	for _, m := range importBarePattern.FindAllStringSubmatch(content, -1) {
		if !seenImport[m[1]] {
			seenImport[m[1]] = true
			ext.Imports = append(ext.Imports, m[1])
		}
	}

	return ext
}

func isCapitalized(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// MergeFile folds an extraction for one file into the structure index.
// Symbols already known are left untouched; the import list for the
// file overwrites any prior entry for that path.
func (cs *CodeStructure) MergeFile(path, content string) {
	ext := ExtractStructure(content)

	if cs.Functions == nil {
		cs.Functions = map[string]FunctionInfo{}
	}
	if cs.Components == nil {
		cs.Components = map[string]ComponentInfo{}
	}
	if cs.Imports == nil {
		cs.Imports = map[string][]string{}
	}

	for _, name := range ext.Functions {
		if _, ok := cs.Functions[name]; !ok {
			cs.Functions[name] = FunctionInfo{ReturnType: "unknown", File: path}
		}
	}
	for _, name := range ext.Components {
		if _, ok := cs.Components[name]; !ok {
			cs.Components[name] = ComponentInfo{File: path}
		}
	}
	if len(ext.Imports) > 0 {
		cs.Imports[path] = ext.Imports
	}
}

// Summary returns the compact counts line used in prompt variables.
func (cs CodeStructure) Summary() string {
	files := map[string]bool{}
	for _, f := range cs.Functions {
		if f.File != "" {
			files[f.File] = true
		}
	}
	for _, c := range cs.Components {
		if c.File != "" {
			files[c.File] = true
		}
	}
	for p := range cs.Imports {
		files[p] = true
	}

	return fmt.Sprintf("components: %d, functions: %d, files: %d",
		len(cs.Components), len(cs.Functions), len(files))
}
