package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/rusenback/bpmmon/internal/dataset"
	"github.com/rusenback/bpmmon/internal/model"
	"github.com/rusenback/bpmmon/internal/observability"
)

// ErrTaskNotFound is returned when no task matches a work item
var ErrTaskNotFound = errors.New("task not found")

// logColumns maps data set columns to node_instance_log columns
var logColumns = map[string]string{
	dataset.ColumnLogID:                "id",
	dataset.ColumnLogProcessInstanceID: "process_instance_id",
	dataset.ColumnLogDate:              "log_date",
	dataset.ColumnLogNodeName:          "node_name",
	dataset.ColumnLogNodeType:          "node_type",
	dataset.ColumnLogType:              "type",
	dataset.ColumnLogWorkItemID:        "work_item_id",
}

// Lookup answers a page request against the node log data set
func (s *Storage) Lookup(ctx context.Context, l dataset.Lookup) (ds dataset.DataSet, err error) {
	ctx, span := observability.StartSpan(ctx, "storage.lookup",
		attribute.String("dataset.uuid", l.DataSetUUID),
		attribute.Int("dataset.offset", l.Offset),
		attribute.Int("dataset.rows", l.Rows),
	)
	defer func() { observability.EndSpan(span, err) }()

	if l.DataSetUUID != dataset.ProcessInstanceLogs {
		return nil, fmt.Errorf("%s: %w", l.DataSetUUID, dataset.ErrNotFound)
	}

	query, args, err := buildLogQuery(l)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &dataset.ClientError{Message: "query failed", Err: err}
	}
	defer rows.Close()

	tbl := dataset.NewTable(l.DataSetUUID,
		dataset.ColumnLogID,
		dataset.ColumnLogProcessInstanceID,
		dataset.ColumnLogDate,
		dataset.ColumnLogNodeName,
		dataset.ColumnLogNodeType,
		dataset.ColumnLogType,
		dataset.ColumnLogWorkItemID,
	)

	for rows.Next() {
		var (
			id, pid, logDate, logType int64
			nodeName, nodeType        sql.NullString
			workItemID                sql.NullInt64
		)
		if err := rows.Scan(&id, &pid, &logDate, &nodeName, &nodeType, &logType, &workItemID); err != nil {
			return nil, &dataset.ClientError{Message: "malformed log row", Err: err}
		}

		var workItem any
		if workItemID.Valid {
			workItem = workItemID.Int64
		}
		tbl.AddRow(id, pid, time.UnixMilli(logDate), nodeName.String, nodeType.String, logType, workItem)
	}
	if err := rows.Err(); err != nil {
		return nil, &dataset.ClientError{Message: "query failed", Err: err}
	}

	return tbl, nil
}

// buildLogQuery turns a lookup into SQL. Column names never come from
// the lookup directly, only through logColumns.
func buildLogQuery(l dataset.Lookup) (string, []any, error) {
	var q strings.Builder
	var args []any

	q.WriteString(`SELECT id, process_instance_id, log_date, node_name, node_type, type, work_item_id FROM node_instance_log`)

	for i, f := range l.Filters {
		col, ok := logColumns[f.Column]
		if !ok {
			return "", nil, &dataset.ClientError{Message: fmt.Sprintf("unknown filter column %q", f.Column)}
		}
		if len(f.Values) == 0 {
			return "", nil, &dataset.ClientError{Message: fmt.Sprintf("empty filter on %q", f.Column)}
		}
		if i == 0 {
			q.WriteString(" WHERE ")
		} else {
			q.WriteString(" AND ")
		}
		q.WriteString(col)
		q.WriteString(" IN (")
		q.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(f.Values)), ", "))
		q.WriteString(")")
		args = append(args, f.Values...)
	}

	if len(l.Sorts) > 0 {
		q.WriteString(" ORDER BY ")
		for i, srt := range l.Sorts {
			col, ok := logColumns[srt.Column]
			if !ok {
				return "", nil, &dataset.ClientError{Message: fmt.Sprintf("unknown sort column %q", srt.Column)}
			}
			if i > 0 {
				q.WriteString(", ")
			}
			q.WriteString(col + " " + srt.Order.String())
		}
	}

	if l.Rows > 0 {
		q.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, l.Rows, l.Offset)
	}

	return q.String(), args, nil
}

// GetTaskByWorkItemID looks up the human task behind a work item
func (s *Storage) GetTaskByWorkItemID(ctx context.Context, serverTemplateID, deploymentID string, workItemID int64) (task model.TaskSummary, err error) {
	ctx, span := observability.StartSpan(ctx, "storage.task",
		attribute.String("task.server_template", serverTemplateID),
		attribute.String("task.deployment", deploymentID),
		attribute.Int64("task.work_item", workItemID),
	)
	defer func() { observability.EndSpan(span, err) }()

	var (
		taskID, createdOn                    sql.NullInt64
		name, owner, description, taskStatus sql.NullString
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT task_id, name, actual_owner, created_on, description, status
		FROM tasks
		WHERE server_template_id = ? AND deployment_id = ? AND work_item_id = ?
	`, serverTemplateID, deploymentID, workItemID).Scan(&taskID, &name, &owner, &createdOn, &description, &taskStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TaskSummary{}, fmt.Errorf("work item %d: %w", workItemID, ErrTaskNotFound)
	}
	if err != nil {
		return model.TaskSummary{}, fmt.Errorf("failed to load task: %w", err)
	}

	return model.TaskSummary{
		WorkItemID:  workItemID,
		TaskID:      taskID.Int64,
		Name:        name.String,
		ActualOwner: owner.String,
		CreatedOn:   time.UnixMilli(createdOn.Int64),
		Description: description.String,
		Status:      taskStatus.String,
	}, nil
}

// ListProcessInstances returns every known instance, newest first
func (s *Storage) ListProcessInstances(ctx context.Context) ([]model.ProcessInstance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, process_def_id, process_name, deployment_id, server_template_id, status, start_date
		FROM process_instances
		ORDER BY start_date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list process instances: %w", err)
	}
	defer rows.Close()

	var instances []model.ProcessInstance
	for rows.Next() {
		var (
			p                                model.ProcessInstance
			name, deployment, serverTemplate sql.NullString
			status, startDate                sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.ProcessDefID, &name, &deployment, &serverTemplate, &status, &startDate); err != nil {
			return nil, fmt.Errorf("failed to scan process instance: %w", err)
		}
		p.ProcessName = name.String
		p.DeploymentID = deployment.String
		p.ServerTemplateID = serverTemplate.String
		p.Status = model.ProcessInstanceStatus(status.Int64)
		p.StartDate = time.UnixMilli(startDate.Int64)
		instances = append(instances, p)
	}

	return instances, rows.Err()
}

// RoleAssignments returns the case roles of a process instance by name
func (s *Storage) RoleAssignments(ctx context.Context, processInstanceID int64) ([]*model.CaseRoleAssignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, users, groups_
		FROM case_role_assignments
		WHERE process_instance_id = ?
		ORDER BY name ASC
	`, processInstanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role assignments: %w", err)
	}
	defer rows.Close()

	var roles []*model.CaseRoleAssignment
	for rows.Next() {
		var name string
		var users, groups sql.NullString
		if err := rows.Scan(&name, &users, &groups); err != nil {
			return nil, fmt.Errorf("failed to scan role assignment: %w", err)
		}
		roles = append(roles, &model.CaseRoleAssignment{
			Name:   name,
			Users:  splitList(users.String),
			Groups: splitList(groups.String),
		})
	}

	return roles, rows.Err()
}

func joinList(values []string) string {
	return strings.Join(values, ",")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
