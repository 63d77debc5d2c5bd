package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Templates []Template `yaml:"templates"`
}

// Registry is the process-wide template table. It is constructed
// explicitly and passed into the Engine; there is no ambient global.
// Single-threaded execution guards it: callers serialize admin
// mutations with prompt generation.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry creates a registry seeded from the embedded default
// catalog.
func NewRegistry() (*Registry, error) {
	r := &Registry{templates: map[string]*Template{}}
	if err := r.loadCatalog(defaultCatalog); err != nil {
		return nil, fmt.Errorf("prompt: load default catalog: %w", err)
	}
	return r, nil
}

// LoadCatalogFile merges templates from a user catalog over the
// registry, replacing entries with matching ids.
func (r *Registry) LoadCatalogFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("prompt: read catalog %s: %w", path, err)
	}
	if err := r.loadCatalog(data); err != nil {
		return fmt.Errorf("prompt: parse catalog %s: %w", path, err)
	}
	return nil
}

func (r *Registry) loadCatalog(data []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	for i := range file.Templates {
		t := file.Templates[i]
		if t.ID == "" {
			return fmt.Errorf("template %d has no id", i)
		}
		t.Metadata.LastModified = time.Now()
		r.templates[t.ID] = &t
	}
	return nil
}

// Get returns the template registered under id.
func (r *Registry) Get(id string) (*Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	return t, nil
}

// Add registers a new template, stamping its modification time.
func (r *Registry) Add(t Template) error {
	if t.ID == "" {
		return fmt.Errorf("prompt: template id required")
	}
	if _, exists := r.templates[t.ID]; exists {
		return fmt.Errorf("prompt: template %q already registered", t.ID)
	}
	t.Metadata.LastModified = time.Now()
	r.templates[t.ID] = &t
	return nil
}

// Update replaces an existing template's definition, preserving its
// usage counters and stamping the modification time.
func (r *Registry) Update(t Template) error {
	existing, ok := r.templates[t.ID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, t.ID)
	}
	t.Metadata = existing.Metadata
	t.Metadata.LastModified = time.Now()
	r.templates[t.ID] = &t
	return nil
}

// Delete removes a template.
func (r *Registry) Delete(id string) error {
	if _, ok := r.templates[id]; !ok {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	delete(r.templates, id)
	return nil
}

// List returns all templates sorted by id.
func (r *Registry) List() []*Template {
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
