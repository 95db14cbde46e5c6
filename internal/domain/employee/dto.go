// internal/domain/employee/dto.go
package employee

import (
	"errors"
	"net/url"
	"strconv"
)

var ErrSkillRequired = errors.New("skill id is required")

// AssignSkillRequest is the body of POST /employees/{id}/skills.
type AssignSkillRequest struct {
	SkillID int64 `json:"skillId"`
}

func (r AssignSkillRequest) Validate() error {
	if r.SkillID <= 0 {
		return ErrSkillRequired
	}
	return nil
}

// Reassignment carries the department and manager selection of the profile
// editor. A nil field is omitted from the remote call.
type Reassignment struct {
	DepartmentID *int64 `json:"departmentId"`
	ManagerID    *int64 `json:"managerId"`
}

// QueryParams renders the reassignment as the query string the remote
// PUT /employees/{id} expects.
func (r Reassignment) QueryParams() url.Values {
	params := url.Values{}
	if r.DepartmentID != nil {
		params.Set("departmentId", strconv.FormatInt(*r.DepartmentID, 10))
	}
	if r.ManagerID != nil {
		params.Set("managerId", strconv.FormatInt(*r.ManagerID, 10))
	}
	return params
}

// Filter narrows the employee directory. Only one criterion applies at a
// time; Skill wins over DepartmentID when both are set.
type Filter struct {
	Skill        string `form:"skill" json:"skill,omitempty"`
	DepartmentID *int64 `form:"departmentId" json:"departmentId,omitempty"`
}

func (f Filter) IsZero() bool {
	return f.Skill == "" && f.DepartmentID == nil
}

// Values renders the filter as collection query criteria.
func (f Filter) Values() url.Values {
	values := url.Values{}
	if f.Skill != "" {
		values.Set("skill", f.Skill)
	}
	if f.DepartmentID != nil {
		values.Set("departmentId", strconv.FormatInt(*f.DepartmentID, 10))
	}
	return values
}
