package dataio

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/savegem/dbm/internal/store"
	"github.com/savegem/dbm/internal/util"
)

// ExtractRequest describes one table export
type ExtractRequest struct {
	Table     string
	Type      string
	Filter    string
	OutputDir string
}

// ExportPipeline resolves the extractor strategy for a request and runs
// it against the store.
type ExportPipeline struct {
	store    *store.Store
	registry *Registry
}

// NewExportPipeline creates an export pipeline over an open store and a
// populated strategy registry.
func NewExportPipeline(s *store.Store, registry *Registry) *ExportPipeline {
	return &ExportPipeline{store: s, registry: registry}
}

// Extract runs the extractor selected by the request's type tag,
// falling back to Regular for unknown tags.
func (p *ExportPipeline) Extract(req ExtractRequest) error {
	return p.registry.Extractor(req.Type).Extract(p.store, req)
}

// PostExtractFunc reshapes the null-stripped records before the
// envelope is assembled. The default is the identity.
type PostExtractFunc func(rows []store.Row, req ExtractRequest) []store.Row

// RegularExtractor exports a table (optionally filtered) to
// <output-dir>/<table>.json, omitting null-valued columns.
type RegularExtractor struct {
	post PostExtractFunc
}

// NewRegularExtractor creates the default extractor. A nil hook keeps
// records as stripped.
func NewRegularExtractor(post PostExtractFunc) *RegularExtractor {
	return &RegularExtractor{post: post}
}

// Extract reads the table, strips null columns from a working copy of
// each row, runs the post-extract hook on the stripped records, and
// writes the assembled envelope to disk.
func (e *RegularExtractor) Extract(s *store.Store, req ExtractRequest) error {
	util.InfoLog("Starting data extraction.")
	util.InfoLog("Extractor: %s", req.Type)
	util.InfoLog("Table: %s", req.Table)
	util.InfoLog("Output directory: %s", req.OutputDir)
	if req.Filter != "" {
		util.InfoLog("Filter: %s", req.Filter)
	}

	rows, err := s.ReadRows(req.Table, req.Filter)
	if err != nil {
		return err
	}

	records := StripNulls(rows)
	if e.post != nil {
		records = e.post(records, req)
	}

	env := &Envelope{
		Metadata: Metadata{
			TableName:   req.Table,
			Type:        req.Type,
			Filter:      req.Filter,
			ExtractDate: time.Now().Format(time.RFC3339),
		},
		Data: records,
	}

	path := filepath.Join(req.OutputDir, req.Table+".json")
	if err := WriteEnvelope(path, env); err != nil {
		return err
	}

	size := int64(0)
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	util.SuccessLog("Extracted %d records to %s (%s).",
		len(records), path, humanize.Bytes(uint64(size)))
	return nil
}
