// Package textrender renders documents from text/template files listed in a
// YAML manifest.
package textrender

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

// Manifest maps document kinds to template files. Relative template paths are
// resolved against the manifest's directory.
type Manifest struct {
	Extension   string            `yaml:"extension"`
	ContentType string            `yaml:"content_type"`
	Templates   map[string]string `yaml:"templates"`
}

// Renderer executes one parsed template per document kind.
type Renderer struct {
	format    domain.FileFormat
	templates map[domain.DocumentKind]*template.Template
	log       *slog.Logger
}

// Load reads the manifest at path and parses every template it lists.
// fallback is used for the file format when the manifest does not set one.
func Load(path string, fallback domain.FileFormat, logger *slog.Logger) (*Renderer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("textrender: read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("textrender: parse manifest %s: %w", path, err)
	}

	return New(m, filepath.Dir(path), fallback, logger)
}

// New parses the templates of m. Files are read relative to dir.
func New(m Manifest, dir string, fallback domain.FileFormat, logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{
		format:    fallback,
		templates: make(map[domain.DocumentKind]*template.Template, len(m.Templates)),
		log:       logger.With("adapter", "renderer_text"),
	}
	if m.Extension != "" {
		r.format.Extension = strings.TrimPrefix(m.Extension, ".")
	}
	if m.ContentType != "" {
		r.format.ContentType = m.ContentType
	}

	for name, file := range m.Templates {
		kind, err := domain.ParseDocumentKind(name)
		if err != nil {
			return nil, fmt.Errorf("textrender: manifest: %w", err)
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		body, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("textrender: read template %s: %w", kind, err)
		}
		tmpl, err := template.New(string(kind)).Option("missingkey=error").Parse(string(body))
		if err != nil {
			return nil, fmt.Errorf("textrender: parse template %s: %w", kind, err)
		}
		r.templates[kind] = tmpl
	}

	return r, nil
}

// Format returns the file format of rendered documents.
func (r *Renderer) Format() domain.FileFormat { return r.format }

// Render executes the template of kind with values. A kind with no template
// is a *domain.ConfigurationError; a failing template is a *domain.RenderError.
func (r *Renderer) Render(ctx context.Context, kind domain.DocumentKind, values map[string]string) ([]byte, error) {
	tmpl, ok := r.templates[kind]
	if !ok {
		return nil, domain.NewConfigurationError("template", "no template configured for "+string(kind))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		r.log.ErrorContext(ctx, "template execution failed", slog.String("kind", string(kind)), slog.String("error", err.Error()))
		return nil, domain.NewRenderError(kind, err)
	}
	return buf.Bytes(), nil
}
