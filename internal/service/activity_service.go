package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// AuditObserver is notified when an entry cannot be persisted.
type AuditObserver interface {
	AuditFailed()
}

type ActivityEntry struct {
	Action     domain.ActivityAction
	Resource   string
	ResourceID string
	Details    string
	Changes    domain.ChangeSet
}

// ActivityRecorder appends audit entries for admin mutations. Failures are
// logged and never returned to the caller.
type ActivityRecorder struct {
	logs     ports.ActivityLogRepository
	observer AuditObserver
}

func NewActivityRecorder(logs ports.ActivityLogRepository, observer AuditObserver) *ActivityRecorder {
	return &ActivityRecorder{logs: logs, observer: observer}
}

// Record attributes the entry to the actor stored in ctx. Entries without an
// actor are dropped.
func (r *ActivityRecorder) Record(ctx context.Context, entry ActivityEntry) {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok {
		log.Printf("activity: no actor for %s %s, entry skipped", entry.Action, entry.Resource)
		return
	}
	r.RecordAs(ctx, actor, entry)
}

func (r *ActivityRecorder) RecordAs(ctx context.Context, actor domain.Actor, entry ActivityEntry) {
	if r == nil || r.logs == nil {
		return
	}
	meta := domain.RequestMetaFromContext(ctx)
	record := &domain.ActivityLog{
		AdminID:       actor.AdminID,
		AdminUsername: actor.Username,
		Action:        entry.Action,
		Resource:      entry.Resource,
		Details:       entry.Details,
		Changes:       entry.Changes,
		IPAddress:     meta.IP,
		UserAgent:     meta.UserAgent,
	}
	if entry.ResourceID != "" {
		record.ResourceID = stringPtr(entry.ResourceID)
	}

	if err := r.logs.Insert(context.WithoutCancel(ctx), record); err != nil {
		log.Printf("activity: failed to record %s %s by %s: %v", entry.Action, entry.Resource, actor.Username, err)
		if r.observer != nil {
			r.observer.AuditFailed()
		}
	}
}

type ActivityLogQuery struct {
	Resource string
	Action   string
	AdminID  *uuid.UUID
	domain.Pagination
}

func (r *ActivityRecorder) List(ctx context.Context, q ActivityLogQuery) (*Page[domain.ActivityLog], error) {
	p := normalizePagination(q.Pagination, defaultActivityLimit, maxActivityLimit)
	logs, total, err := r.logs.List(ctx, domain.ActivityLogFilter{
		Resource:   q.Resource,
		Action:     q.Action,
		AdminID:    q.AdminID,
		Pagination: p,
	})
	if err != nil {
		return nil, err
	}
	return newPage(logs, total, p), nil
}
