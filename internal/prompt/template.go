// Package prompt implements the versioned prompt-template registry and
// the engine that renders templates from live project context.
package prompt

import (
	"errors"
	"time"
)

// ErrTemplateNotFound is returned when a template id is unregistered.
var ErrTemplateNotFound = errors.New("prompt: template not found")

// Condition operators.
const (
	OpEquals   = "equals"
	OpContains = "contains"
	OpExists   = "exists"
	OpGreater  = "greater"
	OpLess     = "less"
)

// Condition gates a template on a context value. All of a template's
// conditions must hold for it to render.
type Condition struct {
	Variable string `yaml:"variable" json:"variable"`
	Operator string `yaml:"operator" json:"operator"`
	Value    any    `yaml:"value" json:"value"`
}

// Metadata tracks observable template usage.
type Metadata struct {
	Usage         int       `yaml:"-" json:"usage"`
	Effectiveness float64   `yaml:"-" json:"effectiveness"`
	LastModified  time.Time `yaml:"-" json:"lastModified"`
}

// Template is a named, versioned prompt with {variable} placeholders
// and optional activation conditions.
type Template struct {
	ID         string      `yaml:"id" json:"id"`
	Name       string      `yaml:"name" json:"name"`
	Version    string      `yaml:"version" json:"version"`
	Category   string      `yaml:"category" json:"category"`
	Text       string      `yaml:"template" json:"template"`
	Variables  []string    `yaml:"variables" json:"variables"`
	Conditions []Condition `yaml:"conditions" json:"conditions"`
	Metadata   Metadata    `yaml:"-" json:"metadata"`
}
