package dataset

import (
	"context"
	"errors"

	"github.com/rusenback/bpmmon/internal/async"
)

// Backend answers page lookups
type Backend interface {
	Lookup(ctx context.Context, l Lookup) (DataSet, error)
}

// QueryHelper holds the current filter settings of a table and issues page
// lookups for them through a Runner.
type QueryHelper struct {
	backend  Backend
	runner   async.Runner
	pageSize int
	current  *FilterSettings
}

// NewQueryHelper creates a helper fetching pageSize rows per lookup
func NewQueryHelper(backend Backend, runner async.Runner, pageSize int) *QueryHelper {
	return &QueryHelper{
		backend:  backend,
		runner:   runner,
		pageSize: pageSize,
	}
}

// SetCurrentTableSettings replaces the filter settings used by later lookups
func (h *QueryHelper) SetCurrentTableSettings(fs FilterSettings) {
	h.current = &fs
}

// CurrentTableSettings returns the settings in use, if any
func (h *QueryHelper) CurrentTableSettings() (FilterSettings, bool) {
	if h.current == nil {
		return FilterSettings{}, false
	}
	return *h.current, true
}

// PageSize returns the number of rows requested per lookup
func (h *QueryHelper) PageSize() int {
	return h.pageSize
}

// LookupDataSet fetches the page starting at offset. The settings are
// captured when called, so a later SetCurrentTableSettings does not change
// an issued lookup.
func (h *QueryHelper) LookupDataSet(offset int, cb ReadyCallback) {
	if h.current == nil {
		cb.OnError(&ClientError{Message: "no filter settings selected"})
		return
	}
	l := h.current.Lookup(offset, h.pageSize)

	async.Call(h.runner, func(ctx context.Context) (DataSet, error) {
		return h.backend.Lookup(ctx, l)
	}, func(ds DataSet, err error) {
		switch {
		case errors.Is(err, ErrNotFound):
			cb.NotFound()
		case err != nil:
			cb.OnError(err)
		case ds == nil:
			cb.NotFound()
		default:
			cb.Callback(ds)
		}
	})
}
