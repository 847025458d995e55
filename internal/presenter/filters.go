package presenter

import (
	"fmt"

	"github.com/rusenback/bpmmon/internal/dataset"
	"github.com/rusenback/bpmmon/internal/model"
)

// LogFilterSettingsManager scopes the node log data set to one process
// instance, sorted in the order nodes were logged.
type LogFilterSettingsManager struct {
	// NodeTypes limits the log to these node types when not empty
	NodeTypes []model.NodeType
}

func (m LogFilterSettingsManager) CreateDefaultFilterSettings(processInstanceID int64) dataset.FilterSettings {
	fs := dataset.FilterSettings{
		Key:         fmt.Sprintf("%s_%d", dataset.ProcessInstanceLogs, processInstanceID),
		DataSetUUID: dataset.ProcessInstanceLogs,
		Filters: []dataset.Filter{
			dataset.Equals(dataset.ColumnLogProcessInstanceID, processInstanceID),
		},
		Sorts: []dataset.Sort{
			{Column: dataset.ColumnLogDate, Order: dataset.Ascending},
			{Column: dataset.ColumnLogID, Order: dataset.Ascending},
		},
	}

	if len(m.NodeTypes) > 0 {
		values := make([]any, len(m.NodeTypes))
		for i, nt := range m.NodeTypes {
			values[i] = string(nt)
		}
		fs.Filters = append(fs.Filters, dataset.In(dataset.ColumnLogNodeType, values...))
	}

	return fs
}
