// Package store persists generated suggestions per user. It uses a
// single-table DynamoDB design where all records for a user share a
// partition key (USER#{userID}) and each suggestion gets a
// SUGGESTION#{id} sort key. An in-memory implementation backs the local
// CLI and web server.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Suggestion is one persisted suggestion record. ID and UserID are derived
// from PK/SK on read and excluded from DynamoDB attributes on write. The
// raw conversation text is stored zstd-compressed (screenshot OCR output
// runs long) and is transparent to callers.
type Suggestion struct {
	ID              string   `dynamodbav:"-" json:"id"`
	UserID          string   `dynamodbav:"-" json:"userId"`
	Title           string   `dynamodbav:"title" json:"title"`
	Suggestion      string   `dynamodbav:"suggestion" json:"suggestion"`
	Tags            []string `dynamodbav:"tags" json:"tags"`
	RawConversation string   `dynamodbav:"-" json:"rawConversation,omitempty"`
	CreatedAt       int64    `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt       int64    `dynamodbav:"updatedAt" json:"updatedAt"`
}

// SuggestionStore defines suggestion persistence. Each method is safe for
// concurrent use. Get returns (nil, nil) when the record does not exist;
// Put performs full-item replacement.
type SuggestionStore interface {
	// Put creates or replaces a suggestion. A missing ID is assigned; a
	// missing CreatedAt is set to now.
	Put(ctx context.Context, s *Suggestion) error

	// Get retrieves one suggestion. Returns nil, nil if not found.
	Get(ctx context.Context, userID, id string) (*Suggestion, error)

	// ListByUser retrieves every suggestion belonging to a user, in no
	// particular order.
	ListByUser(ctx context.Context, userID string) ([]*Suggestion, error)

	// Update replaces the suggestion text and tags of an existing record.
	Update(ctx context.Context, userID, id, suggestion string, tags []string) (*Suggestion, error)

	// UpdateTags replaces only the tags of an existing record.
	UpdateTags(ctx context.Context, userID, id string, tags []string) (*Suggestion, error)

	// Delete removes one suggestion. Deleting a missing record is not an
	// error.
	Delete(ctx context.Context, userID, id string) error
}

// fill assigns the generated fields of a new record.
func fill(s *Suggestion) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	if s.CreatedAt == 0 {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}
