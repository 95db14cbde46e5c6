// internal/domain/department/dto.go
package department

import (
	"errors"
	"strings"
)

var ErrNameRequired = errors.New("department name is required")

type Draft struct {
	Name string `json:"name" form:"name" binding:"max=255"`
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

func (d Draft) Normalized() Draft {
	return Draft{Name: strings.TrimSpace(d.Name)}
}
