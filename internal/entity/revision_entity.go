package entity

import (
	"time"

	"github.com/google/uuid"
)

// Revision is one saved editor state of a document. Revisions are never
// updated in place.
type Revision struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	Data       []byte
	AuthorName string
	CreatedAt  time.Time
}
