package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/buildmind/buildmind/internal/config"
	"github.com/buildmind/buildmind/internal/db"
	"github.com/buildmind/buildmind/internal/prompt"
	"github.com/buildmind/buildmind/internal/scanner"
	"github.com/buildmind/buildmind/internal/store"
)

// findRoot locates the project root, preferring an existing .buildmind/
// directory over generic project markers.
func findRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	dir, _ := filepath.Abs(cwd)
	for {
		if _, err := os.Stat(filepath.Join(dir, ".buildmind")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return scanner.FindProjectRoot(cwd)
}

// ensureInitialized verifies the project database exists.
func ensureInitialized(root string) (string, error) {
	dbPath := config.ProjectDBPath(root)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("buildmind not initialized in this project. Run `buildmind init` first")
	}
	return dbPath, nil
}

// projectIDFor derives the stable project identifier from config or the
// directory name.
func projectIDFor(root string) string {
	if pcfg, err := config.LoadProject(root); err == nil && pcfg.Project.Name != "" {
		return pcfg.Project.Name
	}
	return filepath.Base(root)
}

// openStore opens the project database and wraps it in a context store.
// The caller must Close the returned DB.
func openStore(root string, log *zap.Logger) (*db.DB, *store.ContextStore, error) {
	dbPath, err := ensureInitialized(root)
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return database, store.New(database, log), nil
}

// newLogger builds the CLI logger. Verbose mode gets development
// output; otherwise only warnings surface.
func newLogger(verbose bool) *zap.Logger {
	if verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			return log
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// newRegistry loads the embedded catalog plus any project overrides
// from .buildmind/templates.yaml.
func newRegistry(root string) (*prompt.Registry, error) {
	registry, err := prompt.NewRegistry()
	if err != nil {
		return nil, err
	}
	path := templatesPath(root)
	if _, statErr := os.Stat(path); statErr == nil {
		if err := registry.LoadCatalogFile(path); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func templatesPath(root string) string {
	return filepath.Join(config.ProjectConfigDirPath(root), "templates.yaml")
}

// ensureGitignore appends .buildmind/ to .gitignore if not already present.
func ensureGitignore(root string) {
	path := filepath.Join(root, ".gitignore")
	content, err := os.ReadFile(path)
	if err == nil && strings.Contains(string(content), ".buildmind/") {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		_, _ = f.WriteString("\n")
	}
	_, _ = f.WriteString(".buildmind/\n")
}
