package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/rusenback/bpmmon/internal/async"
)

type fakeBackend struct {
	lookups []Lookup
	ds      DataSet
	err     error
}

func (f *fakeBackend) Lookup(_ context.Context, l Lookup) (DataSet, error) {
	f.lookups = append(f.lookups, l)
	return f.ds, f.err
}

type recorder struct {
	ds       DataSet
	notFound int
	errs     []error
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		Ready:   func(ds DataSet) { r.ds = ds },
		Missing: func() { r.notFound++ },
		Failed:  func(err error) { r.errs = append(r.errs, err) },
	}
}

func TestTableValueAt(t *testing.T) {
	tbl := NewTable("uuid", "a", "b")
	tbl.AddRow(1, "x")
	tbl.AddRow(2, "y")

	if tbl.RowCount() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.RowCount())
	}
	if got := tbl.ValueAt(1, "b"); got != "y" {
		t.Errorf("expected y, got %v", got)
	}
	if got := tbl.ValueAt(0, "missing"); got != nil {
		t.Errorf("expected nil for unknown column, got %v", got)
	}
	if got := tbl.ValueAt(5, "a"); got != nil {
		t.Errorf("expected nil for unknown row, got %v", got)
	}
}

func TestLookupWithoutSettingsFails(t *testing.T) {
	h := NewQueryHelper(&fakeBackend{}, async.Inline{}, 10)
	r := &recorder{}

	h.LookupDataSet(0, r.callbacks())

	if len(r.errs) != 1 {
		t.Fatalf("expected one error, got %v", r.errs)
	}
}

func TestLookupDataSetOutcomes(t *testing.T) {
	tbl := NewTable(ProcessInstanceLogs, ColumnLogID)
	clientErr := &ClientError{Message: "bad filter"}

	tests := []struct {
		name        string
		backend     *fakeBackend
		wantReady   bool
		wantMissing int
		wantErrs    int
	}{
		{name: "rows", backend: &fakeBackend{ds: tbl}, wantReady: true},
		{name: "not found", backend: &fakeBackend{err: ErrNotFound}, wantMissing: 1},
		{name: "wrapped not found", backend: &fakeBackend{err: errors.Join(errors.New("x"), ErrNotFound)}, wantMissing: 1},
		{name: "nil data set", backend: &fakeBackend{}, wantMissing: 1},
		{name: "error", backend: &fakeBackend{err: clientErr}, wantErrs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewQueryHelper(tt.backend, async.Inline{}, 10)
			h.SetCurrentTableSettings(FilterSettings{DataSetUUID: ProcessInstanceLogs})
			r := &recorder{}

			h.LookupDataSet(20, r.callbacks())

			if (r.ds != nil) != tt.wantReady {
				t.Errorf("ready = %v, want %v", r.ds != nil, tt.wantReady)
			}
			if r.notFound != tt.wantMissing {
				t.Errorf("notFound = %d, want %d", r.notFound, tt.wantMissing)
			}
			if len(r.errs) != tt.wantErrs {
				t.Errorf("errors = %d, want %d", len(r.errs), tt.wantErrs)
			}
			if len(tt.backend.lookups) != 1 {
				t.Fatalf("expected one backend lookup, got %d", len(tt.backend.lookups))
			}
			l := tt.backend.lookups[0]
			if l.Offset != 20 || l.Rows != 10 || l.DataSetUUID != ProcessInstanceLogs {
				t.Errorf("unexpected lookup %s", l)
			}
		})
	}
}

func TestLookupCapturesSettings(t *testing.T) {
	b := &fakeBackend{ds: NewTable("first")}
	q := &async.Queue{}
	h := NewQueryHelper(b, q, 5)

	h.SetCurrentTableSettings(FilterSettings{DataSetUUID: "first", Filters: []Filter{Equals("a", 1)}})
	h.LookupDataSet(0, Callbacks{})
	h.SetCurrentTableSettings(FilterSettings{DataSetUUID: "second"})

	if b.lookups[0].DataSetUUID != "first" || len(b.lookups[0].Filters) != 1 {
		t.Fatalf("lookup did not capture settings: %s", b.lookups[0])
	}
	fs, ok := h.CurrentTableSettings()
	if !ok || fs.DataSetUUID != "second" {
		t.Errorf("expected current settings to be replaced, got %+v", fs)
	}
}

func TestErrorMessage(t *testing.T) {
	wrapped := &ClientError{Message: "timeout", Err: errors.New("deadline")}
	if got := ErrorMessage(wrapped); got != "timeout" {
		t.Errorf("expected client message, got %q", got)
	}
	if got := ErrorMessage(errors.New("plain")); got != "plain" {
		t.Errorf("expected plain message, got %q", got)
	}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Errorf("ClientError should unwrap to its cause")
	}
}
