// Package console holds the per-browser state of the web console. A
// workspace is identified by the signed cookie; it owns the session store
// scope, the gateway that reads it, and one controller per screen.
package console

import (
	"net/http"
	"net/url"
	"time"

	"skilltracker-console/internal/domain/audit"
	"skilltracker-console/internal/domain/department"
	"skilltracker-console/internal/domain/employee"
	"skilltracker-console/internal/domain/skill"
	"skilltracker-console/internal/gateway"
	"skilltracker-console/internal/pkg/session"
	"skilltracker-console/internal/repository/remote"
	"skilltracker-console/internal/service/auth"
	"skilltracker-console/internal/service/collection"
	employeesvc "skilltracker-console/internal/service/employee"

	"go.uber.org/zap"
)

// View names pushed to the browser when a controller's state changes.
const (
	ViewDirectory   = "employees"
	ViewSkills      = "skills"
	ViewDepartments = "departments"
	ViewEmployee    = "employee"
	ViewProfile     = "profile"
)

// Notifier receives state changes of a workspace.
type Notifier interface {
	ViewChanged(workspaceID, view string)
	SessionChanged(workspaceID string, authenticated bool)
}

// Options are the process-wide settings shared by all workspaces.
type Options struct {
	BaseURL          *url.URL
	HTTPClient       *http.Client
	Sessions         session.Backend
	Limiter          auth.LoginLimiter
	Audit            audit.Recorder
	Notifier         Notifier
	Metrics          *gateway.Metrics
	SessionTTL       time.Duration
	EmployeePageSize int
	PickerSize       int
	Logger           *zap.Logger
}

type (
	DirectoryController  = collection.Controller[employee.Employee, collection.NoDraft]
	SkillController      = collection.Controller[skill.Skill, skill.Draft]
	DepartmentController = collection.Controller[department.Department, department.Draft]
)

type Workspace struct {
	ID      string
	Store   session.Store
	Gateway *gateway.Gateway

	Auth        *auth.Manager
	Directory   *DirectoryController
	Skills      *SkillController
	Departments *DepartmentController
	Detail      *employeesvc.DetailController
	Profile     *employeesvc.ProfileController
}

// DefaultSort is the initial sort of every collection view.
var DefaultSort = collection.Sort{Field: "name", Direction: collection.Asc}

func newWorkspace(id string, opts Options) *Workspace {
	logger := opts.Logger.With(zap.String("workspace", id))
	store := opts.Sessions.Scope(id)
	gw := gateway.New(opts.BaseURL, opts.HTTPClient, store, opts.Metrics, logger)

	employees := remote.NewEmployeeRepository(gw)
	skills := remote.NewSkillRepository(gw)
	departments := remote.NewDepartmentRepository(gw)

	notify := func(view string) {
		if opts.Notifier != nil {
			opts.Notifier.ViewChanged(id, view)
		}
	}

	var sessionNotifier auth.SessionNotifier
	if opts.Notifier != nil {
		sessionNotifier = opts.Notifier
	}

	w := &Workspace{
		ID:      id,
		Store:   store,
		Gateway: gw,
		Auth: auth.NewManager(id, remote.NewAuthRepository(gw), store,
			opts.Limiter, opts.Audit, sessionNotifier, opts.SessionTTL, logger),
		Directory: collection.NewController[employee.Employee, collection.NoDraft](ViewDirectory, employees,
			collection.Query{Size: opts.EmployeePageSize, Sort: DefaultSort},
			collection.Messages{Load: "Failed to fetch employee data."},
			collection.WithLogger[employee.Employee, collection.NoDraft](logger),
			collection.WithNotifier[employee.Employee, collection.NoDraft](notify),
		),
		Skills: collection.NewController[skill.Skill, skill.Draft](ViewSkills, skills,
			collection.Query{Sort: DefaultSort},
			collection.Messages{
				Load:   "Failed to fetch skills.",
				Create: "Failed to create skill. It might already exist.",
				Update: "Failed to update skill.",
				Delete: "Failed to delete skill. It may be in use by an employee.",
			},
			collection.WithMutator[skill.Skill, skill.Draft](skills),
			collection.WithLogger[skill.Skill, skill.Draft](logger),
			collection.WithNotifier[skill.Skill, skill.Draft](notify),
		),
		Departments: collection.NewController[department.Department, department.Draft](ViewDepartments, departments,
			collection.Query{Sort: DefaultSort},
			collection.Messages{
				Load:   "Failed to fetch departments.",
				Create: "Failed to create department. It might already exist.",
				Update: "Failed to update department.",
				Delete: "Failed to delete department. It may be in use by an employee.",
			},
			collection.WithMutator[department.Department, department.Draft](departments),
			collection.WithLogger[department.Department, department.Draft](logger),
			collection.WithNotifier[department.Department, department.Draft](notify),
		),
		Detail:  employeesvc.NewDetailController(employees, skills, departments, opts.PickerSize, logger),
		Profile: employeesvc.NewProfileController(employees, logger),
	}
	w.Detail.OnChange(notify)
	return w
}

// Snapshot returns the current state of a named view.
func (w *Workspace) Snapshot(view string) (any, bool) {
	switch view {
	case ViewDirectory:
		return w.Directory.Snapshot(), true
	case ViewSkills:
		return w.Skills.Snapshot(), true
	case ViewDepartments:
		return w.Departments.Snapshot(), true
	case ViewEmployee:
		return w.Detail.Snapshot(), true
	case ViewProfile:
		return w.Profile.Snapshot(), true
	}
	return nil, false
}
