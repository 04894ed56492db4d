package model

// User represents a resource owner who can authenticate through the
// password grant. Users are loaded once from the credentials file and never
// change while the process runs. ID is returned as user.id in token
// responses; PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	Username     string
	PasswordHash string
}
