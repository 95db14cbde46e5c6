// internal/service/employee/detail.go
package employee

import (
	"context"
	"errors"
	"sync"

	"skilltracker-console/internal/domain/department"
	"skilltracker-console/internal/domain/employee"
	"skilltracker-console/internal/domain/skill"
	xerrors "skilltracker-console/internal/pkg/errors"
	"skilltracker-console/internal/service/collection"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	msgDetailFailed   = "Failed to fetch employee details."
	msgAssignFailed   = "Failed to assign skill."
	msgRemoveFailed   = "Failed to remove skill."
	msgReassignFailed = "Failed to update profile."
	msgSelectSkill    = "Please select a skill to assign."
	msgNoEmployee     = "No employee selected."
)

var ErrNoEmployee = errors.New("no employee selected")

// Employees is the remote employee surface the detail page needs.
type Employees interface {
	Get(ctx context.Context, id int64) (*employee.Employee, error)
	ListAll(ctx context.Context, size int) ([]employee.Employee, error)
	Reassign(ctx context.Context, id int64, change employee.Reassignment) (*employee.Employee, error)
	AssignSkill(ctx context.Context, id, skillID int64) error
	RemoveSkill(ctx context.Context, id, skillID int64) error
}

type Skills interface {
	ListAll(ctx context.Context) ([]skill.Skill, error)
}

type Departments interface {
	ListAll(ctx context.Context) ([]department.Department, error)
}

// Detail is the combined view of one employee with everything its editors
// need. Managers excludes the employee itself; AssignableSkills are the
// skills not yet assigned.
type Detail struct {
	Employee         *employee.Employee      `json:"employee"`
	Skills           []skill.Skill           `json:"skills"`
	Departments      []department.Department `json:"departments"`
	Managers         []employee.Employee     `json:"managers"`
	AssignableSkills []skill.Skill           `json:"assignableSkills"`
	DepartmentID     *int64                  `json:"selectedDepartmentId"`
	ManagerID        *int64                  `json:"selectedManagerId"`
}

type DetailState struct {
	Status     collection.Status `json:"status"`
	EmployeeID int64             `json:"employeeId"`
	Detail     *Detail           `json:"detail"`
	Error      string            `json:"error,omitempty"`
}

// DetailController loads one employee together with the skill, department
// and manager lists, and reloads all of them after every relation change.
type DetailController struct {
	employees   Employees
	skills      Skills
	departments Departments
	pickerSize  int
	logger      *zap.Logger
	notify      func(view string)

	mu    sync.Mutex
	state DetailState
}

func NewDetailController(employees Employees, skills Skills, departments Departments, pickerSize int, logger *zap.Logger) *DetailController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetailController{
		employees:   employees,
		skills:      skills,
		departments: departments,
		pickerSize:  pickerSize,
		logger:      logger,
		state:       DetailState{Status: collection.StatusIdle},
	}
}

// OnChange registers fn to be called after every applied state change.
func (c *DetailController) OnChange(fn func(view string)) {
	c.notify = fn
}

func (c *DetailController) Snapshot() DetailState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open switches to employee id and loads it.
func (c *DetailController) Open(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.state.EmployeeID != id {
		c.state = DetailState{Status: collection.StatusIdle, EmployeeID: id}
	}
	c.mu.Unlock()
	return c.Load(ctx)
}

// Load issues the four fetches concurrently. The view is ready only when all
// of them succeed; any failure fails the whole load.
func (c *DetailController) Load(ctx context.Context) error {
	c.mu.Lock()
	id := c.state.EmployeeID
	c.mu.Unlock()
	if id == 0 {
		return xerrors.WithMessage(xerrors.ErrValidation, msgNoEmployee, ErrNoEmployee)
	}
	return c.load(ctx, id)
}

func (c *DetailController) load(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.state.EmployeeID != id {
		c.mu.Unlock()
		return nil
	}
	c.state.Status = collection.StatusLoading
	c.mu.Unlock()

	var (
		emp    *employee.Employee
		skills []skill.Skill
		depts  []department.Department
		staff  []employee.Employee
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		emp, err = c.employees.Get(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		skills, err = c.skills.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		depts, err = c.departments.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		staff, err = c.employees.ListAll(gctx, c.pickerSize)
		return err
	})

	if err := g.Wait(); err != nil {
		msg := xerrors.UserMessage(err, msgDetailFailed)
		c.logger.Warn("employee detail load failed", zap.Int64("employee_id", id), zap.Error(err))
		c.apply(id, func(s *DetailState) {
			s.Status = collection.StatusFailed
			s.Detail = nil
			s.Error = msg
		})
		return xerrors.WithMessage(xerrors.Classify(err), msg, err)
	}

	detail := buildDetail(emp, skills, depts, staff)
	c.apply(id, func(s *DetailState) {
		s.Status = collection.StatusReady
		s.Detail = detail
		s.Error = ""
	})
	return nil
}

func buildDetail(emp *employee.Employee, skills []skill.Skill, depts []department.Department, staff []employee.Employee) *Detail {
	managers := make([]employee.Employee, 0, len(staff))
	for _, e := range staff {
		if e.ID != emp.ID {
			managers = append(managers, e)
		}
	}

	assignable := make([]skill.Skill, 0, len(skills))
	for _, s := range skills {
		if !emp.HasSkill(s.ID) {
			assignable = append(assignable, s)
		}
	}

	if skills == nil {
		skills = []skill.Skill{}
	}
	if depts == nil {
		depts = []department.Department{}
	}
	if emp.Skills == nil {
		emp.Skills = []skill.Skill{}
	}

	return &Detail{
		Employee:         emp,
		Skills:           skills,
		Departments:      depts,
		Managers:         managers,
		AssignableSkills: assignable,
		DepartmentID:     emp.DepartmentID(),
		ManagerID:        emp.ManagerID(),
	}
}

// ========== Relation mutations ==========
// Mutations write to the employee they are given. The view reloads only when
// it still shows that employee.

func (c *DetailController) AssignSkill(ctx context.Context, id, skillID int64) error {
	req := employee.AssignSkillRequest{SkillID: skillID}
	if err := req.Validate(); err != nil {
		c.fail(id, msgSelectSkill)
		return xerrors.WithMessage(xerrors.ErrValidation, msgSelectSkill, err)
	}
	return c.mutate(ctx, id, "assign_skill", msgAssignFailed, func() error {
		return c.employees.AssignSkill(ctx, id, skillID)
	})
}

func (c *DetailController) RemoveSkill(ctx context.Context, id, skillID int64) error {
	return c.mutate(ctx, id, "remove_skill", msgRemoveFailed, func() error {
		return c.employees.RemoveSkill(ctx, id, skillID)
	})
}

// Reassign updates department and manager; nil fields are not sent.
func (c *DetailController) Reassign(ctx context.Context, id int64, change employee.Reassignment) error {
	return c.mutate(ctx, id, "reassign", msgReassignFailed, func() error {
		_, err := c.employees.Reassign(ctx, id, change)
		return err
	})
}

func (c *DetailController) mutate(ctx context.Context, id int64, op, fallback string, call func() error) error {
	if id <= 0 {
		return xerrors.WithMessage(xerrors.ErrValidation, msgNoEmployee, ErrNoEmployee)
	}

	if err := call(); err != nil {
		msg := xerrors.UserMessage(err, fallback)
		c.logger.Warn("employee mutation failed",
			zap.String("op", op),
			zap.Int64("employee_id", id),
			zap.Error(err),
		)
		c.fail(id, msg)
		return xerrors.WithMessage(xerrors.Classify(err), msg, err)
	}

	return c.load(ctx, id)
}

func (c *DetailController) fail(id int64, msg string) {
	c.apply(id, func(s *DetailState) { s.Error = msg })
}

// apply updates the state unless the controller has moved to another
// employee since the work for id started.
func (c *DetailController) apply(id int64, fn func(*DetailState)) {
	c.mu.Lock()
	if c.state.EmployeeID != id {
		c.mu.Unlock()
		return
	}
	fn(&c.state)
	c.mu.Unlock()
	if c.notify != nil {
		c.notify("employee")
	}
}
