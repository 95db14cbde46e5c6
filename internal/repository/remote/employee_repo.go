package remote

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"skilltracker-console/internal/domain/employee"
	"skilltracker-console/internal/gateway"
	"skilltracker-console/internal/service/collection"
)

type EmployeeRepository struct {
	api gateway.Requester
}

func NewEmployeeRepository(api gateway.Requester) *EmployeeRepository {
	return &EmployeeRepository{api: api}
}

// List returns one directory page. A "skill" filter uses the by-skill search
// endpoint, a "departmentId" filter the by-department one; both answer with
// the full match list as a single page.
func (r *EmployeeRepository) List(ctx context.Context, q collection.Query) (*collection.Page[employee.Employee], error) {
	var page collection.Page[employee.Employee]

	switch {
	case q.Filter.Get("skill") != "":
		query := url.Values{"skillName": {q.Filter.Get("skill")}}
		if err := r.api.Get(ctx, "/employees/search/by-skill", query, &page); err != nil {
			return nil, err
		}
	case q.Filter.Get("departmentId") != "":
		query := url.Values{"departmentId": {q.Filter.Get("departmentId")}}
		if err := r.api.Get(ctx, "/employees/search/by-department", query, &page); err != nil {
			return nil, err
		}
	default:
		if err := r.api.Get(ctx, "/employees", q.Values(), &page); err != nil {
			return nil, err
		}
	}

	return &page, nil
}

// ListAll fetches up to size employees in one page, for pickers.
func (r *EmployeeRepository) ListAll(ctx context.Context, size int) ([]employee.Employee, error) {
	page, err := r.List(ctx, collection.Query{Page: 0, Size: size, Sort: collection.Sort{Field: "name", Direction: collection.Asc}})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *EmployeeRepository) Get(ctx context.Context, id int64) (*employee.Employee, error) {
	var e employee.Employee
	if err := r.api.Get(ctx, employeePath(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Reassign sets department and manager. Unset fields are left out of the
// query string.
func (r *EmployeeRepository) Reassign(ctx context.Context, id int64, change employee.Reassignment) (*employee.Employee, error) {
	var e employee.Employee
	if err := r.api.Put(ctx, employeePath(id), change.QueryParams(), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) AssignSkill(ctx context.Context, id, skillID int64) error {
	return r.api.Post(ctx, employeePath(id)+"/skills", nil, employee.AssignSkillRequest{SkillID: skillID}, nil)
}

func (r *EmployeeRepository) RemoveSkill(ctx context.Context, id, skillID int64) error {
	return r.api.Delete(ctx, fmt.Sprintf("%s/skills/%d", employeePath(id), skillID), nil, nil)
}

func employeePath(id int64) string {
	return "/employees/" + strconv.FormatInt(id, 10)
}
