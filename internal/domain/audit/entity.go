// internal/domain/audit/entity.go
package audit

import (
	"context"
	"time"
)

// Action names recorded in the audit trail.
const (
	ActionLogin            = "auth.login"
	ActionLogout           = "auth.logout"
	ActionRegister         = "auth.register"
	ActionSkillCreate      = "skill.create"
	ActionSkillUpdate      = "skill.update"
	ActionSkillDelete      = "skill.delete"
	ActionDepartmentCreate = "department.create"
	ActionDepartmentUpdate = "department.update"
	ActionDepartmentDelete = "department.delete"
	ActionEmployeeAssign   = "employee.assign_skill"
	ActionEmployeeUnassign = "employee.remove_skill"
	ActionEmployeeReassign = "employee.reassign"
)

// Entry is one successful console operation.
type Entry struct {
	ID         int64     `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	Target     string    `json:"target"`
	Workspace  string    `json:"workspace"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Recorder persists audit entries.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
}

// NopRecorder discards entries. Used when no database is configured.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, *Entry) error { return nil }
