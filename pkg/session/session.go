// Package session persists the authenticated session (token plus the
// caller's officer or owner identity) in a local state file. It replaces what
// the browser front-end kept in ambient local storage with an explicit store
// that is passed to each workflow step.
//
// The token is read from disk on every request rather than cached in memory,
// so a token revoked mid-session is picked up on the next call.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// State is the persisted session content.
type State struct {
	// Token is the raw session token sent as the Authorization header value.
	Token string `json:"token"`
	// UserID is the authenticated account's identifier.
	UserID string `json:"userId,omitempty"`
	// Role is the account role, domain.RoleOfficer or domain.RoleOwner.
	Role string `json:"role,omitempty"`
}

// Store reads and writes session state at a fixed file path. The zero file
// permissions are owner-only because the state contains a live token.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the current state. A missing file yields an empty State, not an
// error: it simply means nobody is logged in.
func (s *Store) Load() (State, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, nil
		}

		return State{}, fmt.Errorf("could not read session file: %w", err)
	}

	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return State{}, fmt.Errorf("could not decode session file: %w", err)
	}

	return st, nil
}

// Save writes the state, creating parent directories as needed.
func (s *Store) Save(st State) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("could not create session dir: %w", err)
		}
	}

	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("could not encode session: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("could not write session file: %w", err)
	}

	return nil
}

// Clear removes the persisted state. Clearing an already-empty session is
// not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not remove session file: %w", err)
	}

	return nil
}

// Token returns the stored token, reading the file fresh on every call.
// An empty string means no session is active.
func (s *Store) Token() (string, error) {
	st, err := s.Load()
	if err != nil {
		return "", err
	}

	return st.Token, nil
}

// Claims decodes the registered JWT claims of the stored token without
// verifying its signature. The backend remains the authority on validity;
// this exists for display and for proactively spotting expired tokens.
func (s *Store) Claims() (*jwt.RegisteredClaims, error) {
	token, err := s.Token()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errors.New("no session token stored")
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("could not parse token: %w", err)
	}

	return claims, nil
}

// Expired reports whether the token carries an exp claim in the past. Tokens
// that cannot be parsed are reported as not expired and sent as-is, since
// only the backend can truly reject them.
func Expired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}

	return claims.ExpiresAt.Before(now)
}
