// Package session owns the client's authentication state: the current
// user, the bearer token's persistence, and the initializing →
// {authenticated, unauthenticated} lifecycle. The Store is the single
// writer of session state; every other component reads it through the
// accessors.
package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
)

// State is the session lifecycle state.
type State int

const (
	// Initializing is the state before the persisted credential has been
	// resolved. Entered exactly once, at startup, and never again.
	Initializing State = iota

	// Authenticated means a user is resolved and the token is installed.
	Authenticated

	// Unauthenticated means no valid credential is held.
	Unauthenticated
)

// TokenStore is the credential persistence boundary: a process-wide
// key-value store surviving restarts, holding at most one token.
type TokenStore interface {
	// Token returns the persisted token, or "" when none is stored.
	Token() (string, error)
	Save(token string) error
	Clear() error
}

// IdentityAPI is the subset of the API client the session layer uses.
type IdentityAPI interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	Register(ctx context.Context, profile model.Profile) (*model.AuthResponse, error)
	CurrentUser(ctx context.Context) (*model.User, error)
	SetToken(token string)
}

// InitializedMsg is sent when the startup credential check resolves.
// A nil User means the session is unauthenticated.
type InitializedMsg struct {
	User *model.User
}

// AuthResultMsg is sent when a login or register attempt resolves.
type AuthResultMsg struct {
	User *model.User
	Err  error
}

// Store holds the session state. Mutations happen only through Update
// and Logout, both invoked from the Bubble Tea update loop, so no
// locking is needed.
type Store struct {
	api    IdentityAPI
	tokens TokenStore

	state       State
	user        *model.User
	lastErr     string
	initialized bool
}

// New creates a session store in the Initializing state.
func New(identity IdentityAPI, tokens TokenStore) *Store {
	return &Store{
		api:    identity,
		tokens: tokens,
		state:  Initializing,
	}
}

// State returns the current lifecycle state.
func (s *Store) State() State { return s.state }

// User returns the authenticated user, or nil.
func (s *Store) User() *model.User { return s.user }

// Err returns the human-readable message from the last failed login or
// register attempt.
func (s *Store) Err() string { return s.lastErr }

// Initialize returns the command that resolves a persisted credential.
// It runs at most once per process: subsequent calls return nil. With no
// stored token the session goes straight to unauthenticated without an
// identity request; with a stored token the identity endpoint decides,
// and any failure discards the token.
func (s *Store) Initialize() tea.Cmd {
	if s.initialized {
		return nil
	}
	s.initialized = true

	identity := s.api
	tokens := s.tokens
	return func() tea.Msg {
		token, err := tokens.Token()
		if err != nil || token == "" {
			return InitializedMsg{User: nil}
		}

		identity.SetToken(token)
		user, err := identity.CurrentUser(context.Background())
		if err != nil {
			// Stale or invalid credential; drop it.
			_ = tokens.Clear()
			identity.SetToken("")
			return InitializedMsg{User: nil}
		}
		return InitializedMsg{User: user}
	}
}

// Login returns the command that exchanges credentials for a session.
// On success the token is persisted and installed before the result
// message is emitted; on failure nothing changes.
func (s *Store) Login(creds model.Credentials) tea.Cmd {
	identity := s.api
	tokens := s.tokens
	return func() tea.Msg {
		resp, err := identity.Login(context.Background(), creds)
		if err != nil {
			return AuthResultMsg{Err: err}
		}
		if err := tokens.Save(resp.Token); err != nil {
			return AuthResultMsg{Err: err}
		}
		identity.SetToken(resp.Token)
		return AuthResultMsg{User: &resp.User}
	}
}

// Register returns the command that creates an account and establishes
// a session, with the same persistence semantics as Login.
func (s *Store) Register(profile model.Profile) tea.Cmd {
	identity := s.api
	tokens := s.tokens
	return func() tea.Msg {
		resp, err := identity.Register(context.Background(), profile)
		if err != nil {
			return AuthResultMsg{Err: err}
		}
		if err := tokens.Save(resp.Token); err != nil {
			return AuthResultMsg{Err: err}
		}
		identity.SetToken(resp.Token)
		return AuthResultMsg{User: &resp.User}
	}
}

// Logout synchronously clears the persisted credential and downgrades
// the session. No network call is involved.
func (s *Store) Logout() {
	_ = s.tokens.Clear()
	s.api.SetToken("")
	s.user = nil
	s.state = Unauthenticated
	s.lastErr = ""
}

// Update applies session messages produced by Initialize, Login, and
// Register. It must be called from the update loop; it is the only
// place session state transitions happen asynchronously.
func (s *Store) Update(msg tea.Msg) {
	switch msg := msg.(type) {
	case InitializedMsg:
		if msg.User != nil {
			s.user = msg.User
			s.state = Authenticated
		} else {
			s.state = Unauthenticated
		}

	case AuthResultMsg:
		if msg.Err != nil {
			s.state = Unauthenticated
			s.lastErr = api.UserMessage(msg.Err)
			return
		}
		s.user = msg.User
		s.state = Authenticated
		s.lastErr = ""
	}
}
