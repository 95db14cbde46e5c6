// internal/service/employee/profile.go
package employee

import (
	"context"
	"sync"

	"skilltracker-console/internal/domain/employee"
	xerrors "skilltracker-console/internal/pkg/errors"
	"skilltracker-console/internal/service/collection"

	"go.uber.org/zap"
)

const (
	msgProfileFailed = "Failed to fetch your profile data."
	msgNoProfile     = "No employee profile is linked to this account."
)

type ProfileState struct {
	Status   collection.Status  `json:"status"`
	Employee *employee.Employee `json:"employee"`
	Linked   bool               `json:"linked"`
	Message  string             `json:"message,omitempty"`
	Error    string             `json:"error,omitempty"`
}

type ProfileReader interface {
	Get(ctx context.Context, id int64) (*employee.Employee, error)
}

// ProfileController shows the logged-in employee's own record.
type ProfileController struct {
	employees ProfileReader
	logger    *zap.Logger

	mu    sync.Mutex
	state ProfileState
}

func NewProfileController(employees ProfileReader, logger *zap.Logger) *ProfileController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileController{
		employees: employees,
		logger:    logger,
		state:     ProfileState{Status: collection.StatusIdle},
	}
}

func (c *ProfileController) Snapshot() ProfileState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load fetches the profile for employeeID. A nil id is a valid, unlinked
// account and never reaches the remote API.
func (c *ProfileController) Load(ctx context.Context, employeeID *int64) error {
	if employeeID == nil {
		c.set(ProfileState{Status: collection.StatusReady, Message: msgNoProfile})
		return nil
	}

	c.mu.Lock()
	c.state.Status = collection.StatusLoading
	c.mu.Unlock()

	e, err := c.employees.Get(ctx, *employeeID)
	if err != nil {
		msg := xerrors.UserMessage(err, msgProfileFailed)
		c.logger.Warn("profile load failed", zap.Int64("employee_id", *employeeID), zap.Error(err))
		c.set(ProfileState{Status: collection.StatusFailed, Linked: true, Error: msg})
		return xerrors.WithMessage(xerrors.Classify(err), msg, err)
	}

	c.set(ProfileState{Status: collection.StatusReady, Employee: e, Linked: true})
	return nil
}

func (c *ProfileController) set(s ProfileState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
