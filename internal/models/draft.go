// internal/models/draft.go
package models

import (
	"strings"

	"github.com/google/uuid"
)

// DraftIDPrefix marks client-generated provisional IDs. The prefix keeps the
// client namespace disjoint from server-assigned numeric option IDs, so a
// draft's identity can never be confused with a persisted entity's and the
// replace-on-save handoff is unambiguous.
const DraftIDPrefix = "draft-"

// NewDraftID generates a fresh provisional ID for a composer draft.
func NewDraftID() string {
	return DraftIDPrefix + uuid.NewString()
}

// IsDraftID reports whether id belongs to the client-side draft namespace.
func IsDraftID(id string) bool {
	return strings.HasPrefix(id, DraftIDPrefix)
}
