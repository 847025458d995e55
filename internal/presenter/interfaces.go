package presenter

import (
	"context"
	"time"

	"github.com/rusenback/bpmmon/internal/dataset"
	"github.com/rusenback/bpmmon/internal/model"
)

// LogView shows the accumulated log list
type LogView interface {
	SetLogsList(logs []model.LogEntry)
	HideLoadButton(hide bool)
}

// HumanTaskView shows the details of one human task
type HumanTaskView interface {
	SetDetailsData(task model.TaskSummary, logDate time.Time)
}

// ErrorPopup presents a message to the user
type ErrorPopup interface {
	ShowMessage(message string)
}

// TaskService resolves human tasks by work item
type TaskService interface {
	GetTaskByWorkItemID(ctx context.Context, serverTemplateID, deploymentID string, workItemID int64) (model.TaskSummary, error)
}

// QueryHelper issues data set page lookups for the current filter settings
type QueryHelper interface {
	SetCurrentTableSettings(fs dataset.FilterSettings)
	LookupDataSet(offset int, cb dataset.ReadyCallback)
}

// FilterSettingsManager builds the filter settings of a process instance
type FilterSettingsManager interface {
	CreateDefaultFilterSettings(processInstanceID int64) dataset.FilterSettings
}
