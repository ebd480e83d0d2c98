// Package export renders quizzes into downloadable file formats.
//
// Each format lives in its own file and registers itself from init(), so adding
// a format never touches the lookup code:
//
//	func init() { Register(xmlExporter{}) }
package export

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"quizapi/models"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Exporter renders a quiz snapshot into a single file. Export receives the quiz
// with its links ordered by position and must not modify it.
type Exporter interface {
	Format() string
	ContentType() string
	FileExtension() string
	Export(quiz *models.Quiz) ([]byte, error)
}

var (
	mu         sync.Mutex
	registered = map[string]Exporter{}
)

// Register adds an exporter to the default set. It panics on an empty or
// duplicate format tag, which can only happen at program start.
func Register(e Exporter) {
	key := normalize(e.Format())
	if key == "" {
		panic("export: exporter with empty format tag")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, dup := registered[key]; dup {
		panic(fmt.Sprintf("export: format %q registered twice", key))
	}
	registered[key] = e
}

// Registry is an immutable lookup table of exporters keyed by lower-cased
// format tag.
type Registry struct {
	exporters map[string]Exporter
	formats   []string
}

// Default builds a registry from every self-registered exporter.
func Default() *Registry {
	mu.Lock()
	defer mu.Unlock()

	list := make([]Exporter, 0, len(registered))
	for _, e := range registered {
		list = append(list, e)
	}
	return NewRegistry(list...)
}

// NewRegistry builds a registry from an explicit list. Later entries with the
// same tag replace earlier ones.
func NewRegistry(exporters ...Exporter) *Registry {
	r := &Registry{exporters: make(map[string]Exporter, len(exporters))}
	for _, e := range exporters {
		key := normalize(e.Format())
		if key == "" {
			continue
		}
		r.exporters[key] = e
	}
	for key := range r.exporters {
		r.formats = append(r.formats, key)
	}
	sort.Strings(r.formats)
	return r
}

// Formats returns the registered format tags in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, len(r.formats))
	copy(out, r.formats)
	return out
}

// Resolve looks up an exporter by tag, ignoring case and surrounding spaces.
func (r *Registry) Resolve(format string) (Exporter, error) {
	e, ok := r.exporters[normalize(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return e, nil
}

func normalize(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}
