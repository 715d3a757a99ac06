package activity

import (
	"time"

	activityDatamodel "github.com/frahmantamala/team-directory/internal/core/datamodel/activity"
)

// Entry is one append-only audit record. Entries are never updated or
// deleted; the dashboard reads the most recent few. ActorName is
// resolved at read time from the directory and never persisted.
type Entry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	ActorName  string    `json:"actor_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToDataModel(e *Entry) *activityDatamodel.ActivityLog {
	return &activityDatamodel.ActivityLog{
		ID:         e.ID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		ActorID:    e.ActorID,
		CreatedAt:  e.CreatedAt,
	}
}

func FromDataModel(m *activityDatamodel.ActivityLog) *Entry {
	return &Entry{
		ID:         m.ID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		ActorID:    m.ActorID,
		CreatedAt:  m.CreatedAt,
	}
}
