package converter

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
)

// Format is a camera raw format accepted by the scanner.
type Format struct {
	Name      string
	Extension string // exact, including the dot; matched case-sensitively
	Vendor    string
}

var (
	CR2 = Format{Name: "cr2", Extension: ".CR2", Vendor: "Canon"}
	ARW = Format{Name: "arw", Extension: ".ARW", Vendor: "Sony"}
)

// Registry is the allow-list of raw formats, keyed by extension.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

func NewRegistry(formats ...Format) *Registry {
	r := &Registry{formats: make(map[string]Format)}
	for _, f := range formats {
		r.Register(f)
	}
	return r
}

// DefaultRegistry accepts .CR2 and .ARW.
func DefaultRegistry() *Registry {
	return NewRegistry(CR2, ARW)
}

// Register adds or replaces the format for f.Extension.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats[f.Extension] = f
}

// Find returns the format whose extension matches path exactly.
func (r *Registry) Find(path string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.formats[filepath.Ext(path)]; ok {
		return f, nil
	}
	return Format{}, fmt.Errorf("no raw format for file: %s", path)
}

// Eligible reports whether path has an allow-listed extension.
func (r *Registry) Eligible(path string) bool {
	_, err := r.Find(path)
	return err == nil
}

// List returns the registered formats ordered by extension.
func (r *Registry) List() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.formats))
	for _, f := range r.formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Extension < out[j].Extension })
	return out
}
