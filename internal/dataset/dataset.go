// Package dataset models column-addressable, paged query results and the
// helper that looks them up for a presenter.
package dataset

import "fmt"

// ProcessInstanceLogs is the uuid of the node log data set
const ProcessInstanceLogs = "jbpmProcessInstanceLogs"

// Columns of the ProcessInstanceLogs data set
const (
	ColumnLogID                = "id"
	ColumnLogProcessInstanceID = "processInstanceId"
	ColumnLogDate              = "log_date"
	ColumnLogNodeName          = "nodeName"
	ColumnLogNodeType          = "nodeType"
	ColumnLogType              = "type" // 0 entered, 1 completed
	ColumnLogWorkItemID        = "workItemId"
)

// DataSet is one page of rows addressed by row index and column id
type DataSet interface {
	UUID() string
	RowCount() int
	ValueAt(row int, column string) any
}

// Table is an in-memory DataSet
type Table struct {
	uuid    string
	columns map[string]int
	rows    [][]any
}

// NewTable creates an empty table with the given columns
func NewTable(uuid string, columns ...string) *Table {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &Table{uuid: uuid, columns: idx}
}

// AddRow appends a row. Values follow the column order given to NewTable.
func (t *Table) AddRow(values ...any) {
	if len(values) != len(t.columns) {
		panic(fmt.Sprintf("dataset: row has %d values, table has %d columns", len(values), len(t.columns)))
	}
	t.rows = append(t.rows, values)
}

func (t *Table) UUID() string { return t.uuid }

func (t *Table) RowCount() int { return len(t.rows) }

// ValueAt returns nil for unknown columns or rows
func (t *Table) ValueAt(row int, column string) any {
	i, ok := t.columns[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return nil
	}
	return t.rows[row][i]
}
