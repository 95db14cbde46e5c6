package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "skilltracker-console/internal/domain/audit"

	"go.uber.org/zap"
)

type memoryRecorder struct {
	entries []*domain.Entry
	err     error
}

func (m *memoryRecorder) Record(_ context.Context, e *domain.Entry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func TestTrail_Record(t *testing.T) {
	rec := &memoryRecorder{}
	trail := NewTrail(rec, zap.NewNop())
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("EAT", 3*3600))
	trail.now = func() time.Time { return fixed }

	trail.Record(context.Background(), "ws-1", "admin@x.io", domain.ActionSkillCreate, "Go")

	if len(rec.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(rec.entries))
	}
	got := rec.entries[0]
	if got.Actor != "admin@x.io" || got.Action != domain.ActionSkillCreate || got.Target != "Go" || got.Workspace != "ws-1" {
		t.Errorf("entry = %+v", got)
	}
	if !got.OccurredAt.Equal(fixed) || got.OccurredAt.Location() != time.UTC {
		t.Errorf("occurred_at = %v, want %v in UTC", got.OccurredAt, fixed)
	}
}

func TestTrail_SwallowsRecorderErrors(t *testing.T) {
	trail := NewTrail(&memoryRecorder{err: errors.New("db down")}, zap.NewNop())
	trail.Record(context.Background(), "ws-1", "a", domain.ActionLogin, "a")
}

func TestNewTrail_NilRecorder(t *testing.T) {
	trail := NewTrail(nil, zap.NewNop())
	trail.Record(context.Background(), "ws-1", "a", domain.ActionLogin, "a")
}
