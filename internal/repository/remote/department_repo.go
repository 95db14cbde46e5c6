package remote

import (
	"context"
	"strconv"

	"skilltracker-console/internal/domain/department"
	"skilltracker-console/internal/gateway"
	"skilltracker-console/internal/service/collection"
)

type DepartmentRepository struct {
	api gateway.Requester
}

func NewDepartmentRepository(api gateway.Requester) *DepartmentRepository {
	return &DepartmentRepository{api: api}
}

// List returns every department as a single page; the endpoint is not paged.
func (r *DepartmentRepository) List(ctx context.Context, _ collection.Query) (*collection.Page[department.Department], error) {
	var page collection.Page[department.Department]
	if err := r.api.Get(ctx, "/departments", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *DepartmentRepository) ListAll(ctx context.Context) ([]department.Department, error) {
	page, err := r.List(ctx, collection.Query{})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d department.Draft) error {
	return r.api.Post(ctx, "/departments", nil, d.Normalized(), nil)
}

func (r *DepartmentRepository) Update(ctx context.Context, id int64, d department.Draft) error {
	return r.api.Put(ctx, "/departments/"+strconv.FormatInt(id, 10), nil, d.Normalized(), nil)
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	return r.api.Delete(ctx, "/departments/"+strconv.FormatInt(id, 10), nil, nil)
}
