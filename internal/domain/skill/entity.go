// internal/domain/skill/entity.go
package skill

// Skill is a named competency that can be assigned to employees.
type Skill struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
