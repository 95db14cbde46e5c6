package remote

import (
	"context"
	"strconv"

	"skilltracker-console/internal/domain/skill"
	"skilltracker-console/internal/gateway"
	"skilltracker-console/internal/service/collection"
)

type SkillRepository struct {
	api gateway.Requester
}

func NewSkillRepository(api gateway.Requester) *SkillRepository {
	return &SkillRepository{api: api}
}

// List returns every skill as a single page; the endpoint is not paged.
func (r *SkillRepository) List(ctx context.Context, _ collection.Query) (*collection.Page[skill.Skill], error) {
	var page collection.Page[skill.Skill]
	if err := r.api.Get(ctx, "/skills", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *SkillRepository) ListAll(ctx context.Context) ([]skill.Skill, error) {
	page, err := r.List(ctx, collection.Query{})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *SkillRepository) Create(ctx context.Context, d skill.Draft) error {
	return r.api.Post(ctx, "/skills", nil, d.Normalized(), nil)
}

func (r *SkillRepository) Update(ctx context.Context, id int64, d skill.Draft) error {
	return r.api.Put(ctx, "/skills/"+strconv.FormatInt(id, 10), nil, d.Normalized(), nil)
}

func (r *SkillRepository) Delete(ctx context.Context, id int64) error {
	return r.api.Delete(ctx, "/skills/"+strconv.FormatInt(id, 10), nil, nil)
}
