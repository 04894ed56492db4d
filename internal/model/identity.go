package model

import "time"

// Identity is what a valid bearer token resolves to. Resource handlers read
// it from the request context.
type Identity struct {
	ClientID  string
	SubjectID string
	ExpiresAt time.Time
}
