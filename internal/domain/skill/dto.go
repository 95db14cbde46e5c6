// internal/domain/skill/dto.go
package skill

import (
	"errors"
	"strings"
)

var ErrNameRequired = errors.New("skill name is required")

// Draft is the create/update payload for a skill.
type Draft struct {
	Name string `json:"name" form:"name" binding:"max=255"`
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Normalized returns the draft as it is sent to the remote API.
func (d Draft) Normalized() Draft {
	return Draft{Name: strings.TrimSpace(d.Name)}
}
