package core

import "github.com/google/uuid"

// NewConversationID generates a UUIDv4 string for callers that do not bring
// their own conversation ids. Uniqueness per concurrent call is the caller's
// responsibility either way.
func NewConversationID() string { return uuid.NewString() }
