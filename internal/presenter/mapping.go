package presenter

import (
	"strconv"
	"time"

	"github.com/rusenback/bpmmon/internal/dataset"
	"github.com/rusenback/bpmmon/internal/model"
)

// logEntriesFromDataSet maps every row of ds, keeping row order
func logEntriesFromDataSet(ds dataset.DataSet) []model.LogEntry {
	entries := make([]model.LogEntry, 0, ds.RowCount())
	for row := 0; row < ds.RowCount(); row++ {
		entries = append(entries, logEntryFromRow(ds, row))
	}
	return entries
}

func logEntryFromRow(ds dataset.DataSet, row int) model.LogEntry {
	entry := model.LogEntry{
		ID:                asInt64(ds.ValueAt(row, dataset.ColumnLogID)),
		ProcessInstanceID: asInt64(ds.ValueAt(row, dataset.ColumnLogProcessInstanceID)),
		Date:              asTime(ds.ValueAt(row, dataset.ColumnLogDate)),
		NodeName:          asString(ds.ValueAt(row, dataset.ColumnLogNodeName)),
		NodeType:          model.NodeType(asString(ds.ValueAt(row, dataset.ColumnLogNodeType))),
		Completed:         asInt64(ds.ValueAt(row, dataset.ColumnLogType)) == 1,
	}

	if v := ds.ValueAt(row, dataset.ColumnLogWorkItemID); v != nil {
		id := asInt64(v)
		entry.WorkItemID = &id
	}

	return entry
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	default:
		return 0
	}
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case int64:
		return time.UnixMilli(t)
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return ""
	}
}
