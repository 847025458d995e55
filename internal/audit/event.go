// Package audit decodes the JSON audit events a process engine writes, one
// per line, to its log stream.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rusenback/bpmmon/internal/model"
)

// Kind of an audit event
type Kind string

const (
	KindProcessInstance Kind = "process-instance"
	KindNode            Kind = "node"
	KindTask            Kind = "task"
	KindRole            Kind = "role"
)

// Event is a single audit record. Which fields are set depends on Kind.
type Event struct {
	Kind              Kind      `json:"kind"`
	ServerTemplateID  string    `json:"serverTemplateId,omitempty"`
	DeploymentID      string    `json:"deploymentId,omitempty"`
	ProcessInstanceID int64     `json:"processInstanceId"`
	Date              time.Time `json:"date"`

	// process-instance
	ProcessDefID string `json:"processDefId,omitempty"`
	ProcessName  string `json:"processName,omitempty"`
	Status       int    `json:"status,omitempty"`

	// node
	LogID     int64  `json:"logId,omitempty"`
	NodeName  string `json:"nodeName,omitempty"`
	NodeType  string `json:"nodeType,omitempty"`
	Completed bool   `json:"completed,omitempty"`

	// node and task
	WorkItemID *int64 `json:"workItemId,omitempty"`

	// task
	TaskID      int64  `json:"taskId,omitempty"`
	TaskName    string `json:"taskName,omitempty"`
	ActualOwner string `json:"actualOwner,omitempty"`
	Description string `json:"description,omitempty"`
	TaskStatus  string `json:"taskStatus,omitempty"`

	// role
	RoleName string   `json:"roleName,omitempty"`
	Users    []string `json:"users,omitempty"`
	Groups   []string `json:"groups,omitempty"`
}

var errMissingField = errors.New("missing field")

// Decode parses one JSON line into a validated event
func Decode(line []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(line, &e); err != nil {
		return Event{}, fmt.Errorf("invalid audit event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Validate checks the fields Kind requires
func (e Event) Validate() error {
	if e.ProcessInstanceID <= 0 && e.Kind != KindTask {
		return fmt.Errorf("%s event: %w processInstanceId", e.Kind, errMissingField)
	}

	switch e.Kind {
	case KindProcessInstance:
		if e.ProcessDefID == "" {
			return fmt.Errorf("%s event: %w processDefId", e.Kind, errMissingField)
		}
	case KindNode:
		if e.NodeType == "" {
			return fmt.Errorf("%s event: %w nodeType", e.Kind, errMissingField)
		}
	case KindTask:
		if e.WorkItemID == nil {
			return fmt.Errorf("%s event: %w workItemId", e.Kind, errMissingField)
		}
	case KindRole:
		if e.RoleName == "" {
			return fmt.Errorf("%s event: %w roleName", e.Kind, errMissingField)
		}
	default:
		return fmt.Errorf("unknown audit event kind %q", e.Kind)
	}
	return nil
}

// Instance returns the process instance a process-instance event describes
func (e Event) Instance() model.ProcessInstance {
	return model.ProcessInstance{
		ID:               e.ProcessInstanceID,
		ProcessDefID:     e.ProcessDefID,
		ProcessName:      e.ProcessName,
		DeploymentID:     e.DeploymentID,
		ServerTemplateID: e.ServerTemplateID,
		Status:           model.ProcessInstanceStatus(e.Status),
		StartDate:        e.Date,
	}
}

// Task returns the task a task event describes
func (e Event) Task() model.TaskSummary {
	t := model.TaskSummary{
		TaskID:      e.TaskID,
		Name:        e.TaskName,
		ActualOwner: e.ActualOwner,
		CreatedOn:   e.Date,
		Description: e.Description,
		Status:      e.TaskStatus,
	}
	if e.WorkItemID != nil {
		t.WorkItemID = *e.WorkItemID
	}
	return t
}

// Role returns the role assignment a role event describes
func (e Event) Role() model.CaseRoleAssignment {
	return model.CaseRoleAssignment{
		Name:   e.RoleName,
		Users:  e.Users,
		Groups: e.Groups,
	}
}
