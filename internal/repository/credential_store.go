package repository

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/siren-services/internal/model"
	"github.com/iliyamo/siren-services/internal/utils"
)

// CredentialStore holds the registered clients and users. It is built once
// at startup and never mutated afterwards, so it needs no locking.
type CredentialStore struct {
	clients map[string]model.Client
	users   map[string]model.User // username -> user

	// dummyHash is compared against when the username is unknown so the
	// response time does not reveal which usernames exist.
	dummyHash []byte
}

// NewCredentialStore validates and indexes the given clients and users.
func NewCredentialStore(clients []model.Client, users []model.User) (*CredentialStore, error) {
	s := &CredentialStore{
		clients: make(map[string]model.Client, len(clients)),
		users:   make(map[string]model.User, len(users)),
	}
	for _, c := range clients {
		if c.ID == "" {
			return nil, errors.New("client with empty id")
		}
		if _, ok := s.clients[c.ID]; ok {
			return nil, fmt.Errorf("client %q: %w", c.ID, ErrDuplicate)
		}
		s.clients[c.ID] = c
	}

	ids := make(map[string]bool, len(users))
	cost := bcrypt.MinCost
	for _, u := range users {
		if u.ID == "" || u.Username == "" {
			return nil, errors.New("user with empty id or username")
		}
		if _, ok := s.users[u.Username]; ok {
			return nil, fmt.Errorf("username %q: %w", u.Username, ErrDuplicate)
		}
		if ids[u.ID] {
			return nil, fmt.Errorf("user id %q: %w", u.ID, ErrDuplicate)
		}
		if c, err := bcrypt.Cost([]byte(u.PasswordHash)); err == nil && c > cost {
			cost = c
		}
		ids[u.ID] = true
		s.users[u.Username] = u
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	s.dummyHash = dummy
	return s, nil
}

// FindClient returns the client registered under clientID. When secret is
// non-nil it must match the stored secret as well.
func (s *CredentialStore) FindClient(clientID string, secret *string) (model.Client, bool) {
	c, ok := s.clients[clientID]
	if !ok {
		return model.Client{}, false
	}
	if secret != nil && !utils.SecretMatches(c.SecretDigest, *secret) {
		return model.Client{}, false
	}
	return c, true
}

// FindUser returns the user with the given username when password matches.
func (s *CredentialStore) FindUser(username, password string) (model.User, bool) {
	u, ok := s.users[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return model.User{}, false
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, false
	}
	return u, true
}
