package store

import (
	"encoding/base64"
	"fmt"
)

// CredentialType identifies how a credential is sent
type CredentialType string

const (
	CredentialBasic  CredentialType = "basic"
	CredentialBearer CredentialType = "bearer"
)

// Credential is a basic (username, password) or bearer (token) credential
type Credential struct {
	Type     CredentialType `json:"type"`
	Username string         `json:"username,omitempty"`
	Password string         `json:"password,omitempty"`
	Token    string         `json:"token,omitempty"`
}

// BasicCredential creates a basic credential
func BasicCredential(username, password string) Credential {
	return Credential{Type: CredentialBasic, Username: username, Password: password}
}

// BearerCredential creates a bearer credential
func BearerCredential(token string) Credential {
	return Credential{Type: CredentialBearer, Token: token}
}

// Header returns the Authorization header value for the credential
func (c Credential) Header() (string, bool) {
	switch c.Type {
	case CredentialBasic:
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Username+":"+c.Password)), true
	case CredentialBearer:
		return "Bearer " + c.Token, true
	default:
		return "", false
	}
}

// Credentials is the credential view of the database, keyed by origin
type Credentials struct {
	db *DB
}

// NewCredentials creates the credential view of db
func NewCredentials(db *DB) *Credentials {
	return &Credentials{db: db}
}

// Get returns the credential stored for origin
func (c *Credentials) Get(origin string) (Credential, bool) {
	var cred Credential
	var ok bool
	c.db.View(func(d *Data) {
		cred, ok = d.Credentials[origin]
	})
	return cred, ok
}

// Set stores cred for origin, replacing any previous credential
func (c *Credentials) Set(origin string, cred Credential) error {
	if _, ok := cred.Header(); !ok {
		return fmt.Errorf("unknown credential type %q", cred.Type)
	}
	return c.db.Update(func(d *Data) error {
		d.Credentials[origin] = cred
		return nil
	})
}

// Delete removes the credential stored for origin
func (c *Credentials) Delete(origin string) error {
	return c.db.Update(func(d *Data) error {
		delete(d.Credentials, origin)
		return nil
	})
}

// AuthorizationHeader derives a ready-to-send Authorization value for origin
func (c *Credentials) AuthorizationHeader(origin string) (string, bool) {
	cred, ok := c.Get(origin)
	if !ok {
		return "", false
	}
	return cred.Header()
}
