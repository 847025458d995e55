// internal/model/logs.go
package model

import "time"

// NodeType is the engine's node kind for an audit log row
type NodeType string

const (
	StartNode     NodeType = "StartNode"
	HumanTaskNode NodeType = "HumanTaskNode"
	EndNode       NodeType = "EndNode"
	Split         NodeType = "Split"
	Join          NodeType = "Join"
	ActionNode    NodeType = "ActionNode"
)

// LogEntry represents a single node transition of a process instance
type LogEntry struct {
	ID                int64
	ProcessInstanceID int64
	Date              time.Time
	NodeName          string
	NodeType          NodeType
	Completed         bool
	WorkItemID        *int64 // only set for human task nodes
}

// IsHumanTask reports whether the entry can be resolved into task details
func (e LogEntry) IsHumanTask() bool {
	return e.NodeType == HumanTaskNode && e.WorkItemID != nil
}
