package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/team-directory/internal/core/events"
)

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	MostRecent(ctx context.Context, limit int) ([]*Entry, error)
}

// Recorder turns audit events into activity log rows and serves the
// recent-activity feed.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(logger *slog.Logger, repo Repository) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// RegisterHooks subscribes the recorder to the audit topic. Every
// successful mutation in the CRUD layer ends here.
func (rec *Recorder) RegisterHooks(bus *events.EventBus) {
	bus.Subscribe(events.TypeEntityAudited, func(ctx context.Context, event events.Event) error {
		data, ok := event.Payload().(map[string]interface{})
		if !ok {
			return fmt.Errorf("unexpected audit payload type %T", event.Payload())
		}

		entry := &Entry{
			ID:         uuid.NewString(),
			Action:     stringField(data, "action"),
			EntityType: stringField(data, "entity_type"),
			EntityID:   stringField(data, "entity_id"),
			ActorID:    stringField(data, "actor_id"),
			CreatedAt:  event.OccurredAt(),
		}
		if entry.Action == "" {
			return fmt.Errorf("audit event %s carries no action", event.EventID())
		}

		if err := rec.repo.Append(ctx, entry); err != nil {
			rec.logger.Error("failed to append activity entry",
				"action", entry.Action,
				"entity_id", entry.EntityID,
				"error", err)
			return err
		}
		return nil
	})
}

// MostRecent returns up to limit entries, newest first. A non-positive
// limit falls back to the dashboard default of 10.
func (rec *Recorder) MostRecent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	return rec.repo.MostRecent(ctx, limit)
}

// Record writes an entry directly, bypassing the bus. Used by the
// seeder and anywhere an audit trail is needed without a mutation
// event.
func (rec *Recorder) Record(ctx context.Context, action, entityType, entityID, actorID string) error {
	return rec.repo.Append(ctx, &Entry{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
