// Package audit records successful console operations. Recording failures
// are logged and never reach the caller.
package audit

import (
	"context"
	"time"

	domain "skilltracker-console/internal/domain/audit"

	"go.uber.org/zap"
)

type Trail struct {
	recorder domain.Recorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewTrail(recorder domain.Recorder, logger *zap.Logger) *Trail {
	if recorder == nil {
		recorder = domain.NopRecorder{}
	}
	return &Trail{recorder: recorder, logger: logger, now: time.Now}
}

func (t *Trail) Record(ctx context.Context, workspace, actor, action, target string) {
	entry := &domain.Entry{
		Actor:      actor,
		Action:     action,
		Target:     target,
		Workspace:  workspace,
		OccurredAt: t.now().UTC(),
	}
	if err := t.recorder.Record(ctx, entry); err != nil {
		t.logger.Warn("failed to record audit entry",
			zap.String("action", action),
			zap.String("target", target),
			zap.Error(err),
		)
	}
}
