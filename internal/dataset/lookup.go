package dataset

import "fmt"

// SortOrder of a column
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "DESC"
	}
	return "ASC"
}

// Filter keeps rows whose column equals one of Values
type Filter struct {
	Column string
	Values []any
}

// Equals builds a single-value filter
func Equals(column string, value any) Filter {
	return Filter{Column: column, Values: []any{value}}
}

// In builds a multi-value filter
func In(column string, values ...any) Filter {
	return Filter{Column: column, Values: values}
}

// Sort orders rows by a column
type Sort struct {
	Column string
	Order  SortOrder
}

// FilterSettings describes which rows of a data set a table shows
type FilterSettings struct {
	Key         string
	DataSetUUID string
	Filters     []Filter
	Sorts       []Sort
}

// Lookup is one page request against a data set
type Lookup struct {
	DataSetUUID string
	Filters     []Filter
	Sorts       []Sort
	Offset      int
	Rows        int
}

// Lookup builds the page request starting at offset
func (fs FilterSettings) Lookup(offset, rows int) Lookup {
	return Lookup{
		DataSetUUID: fs.DataSetUUID,
		Filters:     append([]Filter(nil), fs.Filters...),
		Sorts:       append([]Sort(nil), fs.Sorts...),
		Offset:      offset,
		Rows:        rows,
	}
}

func (l Lookup) String() string {
	return fmt.Sprintf("%s[offset=%d rows=%d filters=%d]", l.DataSetUUID, l.Offset, l.Rows, len(l.Filters))
}
