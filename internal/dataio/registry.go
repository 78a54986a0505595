package dataio

import (
	"sort"

	"github.com/savegem/dbm/internal/store"
)

// RegularTag is the tag of the built-in default strategies. Lookups for
// unknown tags fall back to it.
const RegularTag = "Regular"

// Importer writes a data envelope into the database
type Importer interface {
	Import(s *store.Store, path string) error
}

// Extractor reads a table into a data envelope on disk
type Extractor interface {
	Extract(s *store.Store, req ExtractRequest) error
}

// Registry maps strategy tags to importer and extractor implementations.
// It is constructed once at process start and passed to the pipelines;
// hosting applications register custom strategies before running any
// command. Tags are declared explicitly at registration, never derived
// from type names.
type Registry struct {
	importers  map[string]Importer
	extractors map[string]Extractor
}

// NewRegistry creates a registry with the Regular strategies registered
func NewRegistry() *Registry {
	r := &Registry{
		importers:  make(map[string]Importer),
		extractors: make(map[string]Extractor),
	}
	r.AddImporter(RegularTag, NewRegularImporter(nil))
	r.AddExtractor(RegularTag, NewRegularExtractor(nil))
	return r
}

// AddImporter registers an importer under an explicit tag
func (r *Registry) AddImporter(tag string, imp Importer) {
	r.importers[tag] = imp
}

// AddExtractor registers an extractor under an explicit tag
func (r *Registry) AddExtractor(tag string, ext Extractor) {
	r.extractors[tag] = ext
}

// Importer resolves a tag to an importer. Unknown tags resolve to the
// Regular importer rather than failing, so a mistyped metadata.type
// degrades to default behavior.
func (r *Registry) Importer(tag string) Importer {
	if imp, ok := r.importers[tag]; ok {
		return imp
	}
	return r.importers[RegularTag]
}

// Extractor resolves a tag to an extractor, falling back to Regular
// for unknown tags.
func (r *Registry) Extractor(tag string) Extractor {
	if ext, ok := r.extractors[tag]; ok {
		return ext
	}
	return r.extractors[RegularTag]
}

// ExtractorTags returns the registered extractor tags, sorted
func (r *Registry) ExtractorTags() []string {
	tags := make([]string, 0, len(r.extractors))
	for tag := range r.extractors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
