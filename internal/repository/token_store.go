package repository

import (
	"sync"

	"github.com/iliyamo/siren-services/internal/model"
)

// TokenStore keeps issued token records in memory, indexed by access token
// and by refresh token. All methods are safe for concurrent use. The store
// never checks expiry; callers compare timestamps themselves.
type TokenStore struct {
	mu        sync.RWMutex
	byAccess  map[string]*model.TokenRecord
	byRefresh map[string]*model.TokenRecord
}

// NewTokenStore returns an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		byAccess:  make(map[string]*model.TokenRecord),
		byRefresh: make(map[string]*model.TokenRecord),
	}
}

// Save appends a record and returns a copy of it. Token values are random,
// so collisions are not checked.
func (s *TokenStore) Save(rec model.TokenRecord) model.TokenRecord {
	stored := rec
	s.mu.Lock()
	s.byAccess[stored.AccessToken] = &stored
	if stored.HasRefresh() {
		s.byRefresh[stored.RefreshToken] = &stored
	}
	s.mu.Unlock()
	return stored
}

// FindByAccessToken returns the record issued with access token tok.
func (s *TokenStore) FindByAccessToken(tok string) (model.TokenRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byAccess[tok]
	if !ok {
		return model.TokenRecord{}, false
	}
	return *rec, true
}

// FindByRefreshToken returns the record issued with refresh token tok.
func (s *TokenStore) FindByRefreshToken(tok string) (model.TokenRecord, bool) {
	if tok == "" {
		return model.TokenRecord{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byRefresh[tok]
	if !ok {
		return model.TokenRecord{}, false
	}
	return *rec, true
}

// Revoke removes the record holding refresh token tok, access token
// included. It returns false when no such record exists, which is also what
// the loser of two concurrent revokes of the same token sees.
func (s *TokenStore) Revoke(tok string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byRefresh[tok]
	if !ok {
		return false
	}
	delete(s.byRefresh, tok)
	delete(s.byAccess, rec.AccessToken)
	return true
}

// Len returns the number of live records.
func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byAccess)
}
