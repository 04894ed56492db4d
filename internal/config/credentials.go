package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/siren-services/internal/model"
	"github.com/iliyamo/siren-services/internal/utils"
)

// CredentialsFile is the on-disk layout of registered clients and users.
//
//	clients:
//	  - id: client-app
//	    secret: s3cret
//	    grants: [password, refresh_token, client_credentials]
//	users:
//	  - id: "1"
//	    username: user1
//	    password: password1
//
// A user carries either a plaintext password, hashed at load, or a bcrypt
// password_hash.
type CredentialsFile struct {
	Clients []ClientEntry `yaml:"clients"`
	Users   []UserEntry   `yaml:"users"`
}

type ClientEntry struct {
	ID           string   `yaml:"id"`
	Secret       string   `yaml:"secret"`
	Grants       []string `yaml:"grants"`
	RedirectURIs []string `yaml:"redirect_uris"`
}

type UserEntry struct {
	ID           string `yaml:"id"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

// LoadCredentials reads and converts the credentials file at path.
func LoadCredentials(path string, bcryptCost int) ([]model.Client, []model.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read credentials: %w", err)
	}
	return ParseCredentials(data, bcryptCost)
}

// ParseCredentials decodes a YAML credentials document. Uniqueness of ids
// is checked by the credential store itself.
func ParseCredentials(data []byte, bcryptCost int) ([]model.Client, []model.User, error) {
	var f CredentialsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("decode credentials: %w", err)
	}

	clients := make([]model.Client, 0, len(f.Clients))
	for i, e := range f.Clients {
		c, err := e.toModel()
		if err != nil {
			return nil, nil, fmt.Errorf("client #%d: %w", i+1, err)
		}
		clients = append(clients, c)
	}

	users := make([]model.User, 0, len(f.Users))
	for i, e := range f.Users {
		u, err := e.toModel(bcryptCost)
		if err != nil {
			return nil, nil, fmt.Errorf("user #%d: %w", i+1, err)
		}
		users = append(users, u)
	}
	return clients, users, nil
}

func (e ClientEntry) toModel() (model.Client, error) {
	if e.ID == "" {
		return model.Client{}, errors.New("id is required")
	}
	if e.Secret == "" {
		return model.Client{}, fmt.Errorf("client %q: secret is required", e.ID)
	}
	grants := make(map[model.GrantType]bool, len(e.Grants))
	for _, g := range e.Grants {
		gt, ok := model.ParseGrantType(g)
		if !ok {
			return model.Client{}, fmt.Errorf("client %q: unknown grant type %q", e.ID, g)
		}
		grants[gt] = true
	}
	return model.Client{
		ID:            e.ID,
		SecretDigest:  utils.DigestSecret(e.Secret),
		AllowedGrants: grants,
		RedirectURIs:  e.RedirectURIs,
	}, nil
}

func (e UserEntry) toModel(cost int) (model.User, error) {
	if e.ID == "" || e.Username == "" {
		return model.User{}, errors.New("id and username are required")
	}
	switch {
	case e.Password != "" && e.PasswordHash != "":
		return model.User{}, fmt.Errorf("user %q: set password or password_hash, not both", e.Username)
	case e.PasswordHash != "":
		if !utils.IsBcryptHash(e.PasswordHash) {
			return model.User{}, fmt.Errorf("user %q: password_hash is not a bcrypt hash", e.Username)
		}
		return model.User{ID: e.ID, Username: e.Username, PasswordHash: e.PasswordHash}, nil
	case e.Password != "":
		hash, err := utils.HashPassword(e.Password, cost)
		if err != nil {
			return model.User{}, fmt.Errorf("user %q: hash password: %w", e.Username, err)
		}
		return model.User{ID: e.ID, Username: e.Username, PasswordHash: hash}, nil
	default:
		return model.User{}, fmt.Errorf("user %q: password is required", e.Username)
	}
}
