package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityAction is the verb of an activity-log event.
type ActivityAction string

const (
	ActivityActionIssue      ActivityAction = "issue"
	ActivityActionDownload   ActivityAction = "download"
	ActivityActionRegenerate ActivityAction = "regenerate"
)

func (a ActivityAction) String() string { return string(a) }

// ActivityEvent describes something that happened to an issued document.
type ActivityEvent struct {
	ID         uuid.UUID
	Action     ActivityAction
	Kind       DocumentKind
	DocumentID uuid.UUID
	Scope      ScopeKey
	ActorID    uuid.UUID
	RequestID  string
	OccurredAt time.Time
}
