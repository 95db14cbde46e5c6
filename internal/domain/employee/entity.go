// internal/domain/employee/entity.go
package employee

import "skilltracker-console/internal/domain/skill"

// Ref identifies a related record (department or manager) by id and display name.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Employee is the remote API's employee record. Department and Manager are
// nil when the employee has none.
type Employee struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Role       string        `json:"role"`
	Department *Ref          `json:"department,omitempty"`
	Manager    *Ref          `json:"manager,omitempty"`
	Skills     []skill.Skill `json:"skills"`
}

// HasSkill reports whether skillID is already assigned.
func (e *Employee) HasSkill(skillID int64) bool {
	for _, s := range e.Skills {
		if s.ID == skillID {
			return true
		}
	}
	return false
}

// DepartmentID returns the current department id, or nil.
func (e *Employee) DepartmentID() *int64 {
	if e == nil || e.Department == nil {
		return nil
	}
	id := e.Department.ID
	return &id
}

// ManagerID returns the current manager id, or nil.
func (e *Employee) ManagerID() *int64 {
	if e == nil || e.Manager == nil {
		return nil
	}
	id := e.Manager.ID
	return &id
}
