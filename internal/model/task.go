package model

import "time"

// TaskSummary holds the details of a human task
type TaskSummary struct {
	WorkItemID  int64
	TaskID      int64
	Name        string
	ActualOwner string
	CreatedOn   time.Time
	Description string
	Status      string
}
