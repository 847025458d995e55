package model

import "time"

// ProcessInstanceStatus mirrors the engine's numeric instance states
type ProcessInstanceStatus int

const (
	StatusPending ProcessInstanceStatus = iota
	StatusActive
	StatusCompleted
	StatusAborted
	StatusSuspended
)

func (s ProcessInstanceStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	case StatusSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// ProcessInstance is a row of the instance list
type ProcessInstance struct {
	ID               int64
	ProcessDefID     string
	ProcessName      string
	DeploymentID     string
	ServerTemplateID string
	Status           ProcessInstanceStatus
	StartDate        time.Time
}

// SelectionEvent is raised when the user selects a process instance
type SelectionEvent struct {
	DeploymentID      string
	ProcessInstanceID int64
	ProcessDefID      string
	ProcessName       string
	Status            ProcessInstanceStatus
	ServerTemplateID  string
}

// Selection builds the event for an instance row
func (p ProcessInstance) Selection() SelectionEvent {
	return SelectionEvent{
		DeploymentID:      p.DeploymentID,
		ProcessInstanceID: p.ID,
		ProcessDefID:      p.ProcessDefID,
		ProcessName:       p.ProcessName,
		Status:            p.Status,
		ServerTemplateID:  p.ServerTemplateID,
	}
}
