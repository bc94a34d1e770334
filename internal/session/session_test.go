package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/api"
	"taskdeck/internal/model"
)

// fakeIdentity records identity calls and returns canned responses.
type fakeIdentity struct {
	token       string
	meCalls     int
	meUser      *model.User
	meErr       error
	loginResp   *model.AuthResponse
	loginErr    error
	registerErr error
}

func (f *fakeIdentity) SetToken(token string) { f.token = token }

func (f *fakeIdentity) CurrentUser(context.Context) (*model.User, error) {
	f.meCalls++
	return f.meUser, f.meErr
}

func (f *fakeIdentity) Login(_ context.Context, _ model.Credentials) (*model.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeIdentity) Register(_ context.Context, _ model.Profile) (*model.AuthResponse, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.loginResp, nil
}

// fakeTokens is an in-memory credential boundary.
type fakeTokens struct {
	token    string
	saved    int
	cleared  int
	tokenErr error
}

func (f *fakeTokens) Token() (string, error) { return f.token, f.tokenErr }

func (f *fakeTokens) Save(token string) error {
	f.token = token
	f.saved++
	return nil
}

func (f *fakeTokens) Clear() error {
	f.token = ""
	f.cleared++
	return nil
}

func TestInitializeWithoutTokenGoesUnauthenticated(t *testing.T) {
	identity := &fakeIdentity{}
	tokens := &fakeTokens{}
	s := New(identity, tokens)

	require.Equal(t, Initializing, s.State())

	cmd := s.Initialize()
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.Equal(t, Unauthenticated, s.State())
	assert.Nil(t, s.User())
	// No identity request may be issued when no credential is stored.
	assert.Zero(t, identity.meCalls)
}

func TestInitializeWithValidTokenAuthenticates(t *testing.T) {
	identity := &fakeIdentity{meUser: &model.User{ID: "u1", Name: "Ada"}}
	tokens := &fakeTokens{token: "stored-token"}
	s := New(identity, tokens)

	cmd := s.Initialize()
	s.Update(cmd())

	assert.Equal(t, Authenticated, s.State())
	require.NotNil(t, s.User())
	assert.Equal(t, "u1", s.User().ID)
	assert.Equal(t, "stored-token", identity.token)
	assert.Equal(t, 1, identity.meCalls)
}

func TestInitializeWithInvalidTokenClearsCredential(t *testing.T) {
	identity := &fakeIdentity{
		meErr: &api.AuthError{Message: "token expired"},
	}
	tokens := &fakeTokens{token: "stale-token"}
	s := New(identity, tokens)

	cmd := s.Initialize()
	s.Update(cmd())

	assert.Equal(t, Unauthenticated, s.State())
	assert.Nil(t, s.User())
	assert.Equal(t, 1, tokens.cleared)
	assert.Empty(t, tokens.token)
	assert.Empty(t, identity.token)
}

func TestInitializeNetworkFailureAlsoClearsCredential(t *testing.T) {
	identity := &fakeIdentity{
		meErr: &api.NetworkError{Op: "GET /auth/me", Err: errors.New("refused")},
	}
	tokens := &fakeTokens{token: "stored-token"}
	s := New(identity, tokens)

	s.Update(s.Initialize()())

	assert.Equal(t, Unauthenticated, s.State())
	assert.Equal(t, 1, tokens.cleared)
}

func TestInitializeRunsAtMostOnce(t *testing.T) {
	s := New(&fakeIdentity{}, &fakeTokens{})

	require.NotNil(t, s.Initialize())
	assert.Nil(t, s.Initialize())
}

func TestLoginPersistsTokenAndAuthenticates(t *testing.T) {
	identity := &fakeIdentity{
		loginResp: &model.AuthResponse{
			User:  model.User{ID: "u1", Name: "Ada"},
			Token: "fresh-token",
		},
	}
	tokens := &fakeTokens{}
	s := New(identity, tokens)
	s.Update(s.Initialize()())
	require.Equal(t, Unauthenticated, s.State())

	cmd := s.Login(model.Credentials{Email: "ada@example.com", Password: "pw"})
	s.Update(cmd())

	assert.Equal(t, Authenticated, s.State())
	assert.Equal(t, "fresh-token", tokens.token)
	assert.Equal(t, "fresh-token", identity.token)
	assert.Empty(t, s.Err())
}

func TestLoginFailureStaysUnauthenticatedWithMessage(t *testing.T) {
	identity := &fakeIdentity{
		loginErr: &api.AuthError{Message: "Invalid credentials"},
	}
	tokens := &fakeTokens{}
	s := New(identity, tokens)
	s.Update(s.Initialize()())

	msg := s.Login(model.Credentials{})().(AuthResultMsg)
	require.Error(t, msg.Err)
	s.Update(msg)

	assert.Equal(t, Unauthenticated, s.State())
	assert.Nil(t, s.User())
	assert.Equal(t, "Invalid credentials", s.Err())
	assert.Zero(t, tokens.saved)
}

func TestRegisterEstablishesSession(t *testing.T) {
	identity := &fakeIdentity{
		loginResp: &model.AuthResponse{
			User:  model.User{ID: "u2", Name: "Grace"},
			Token: "new-token",
		},
	}
	tokens := &fakeTokens{}
	s := New(identity, tokens)
	s.Update(s.Initialize()())

	s.Update(s.Register(model.Profile{Name: "Grace"})())

	assert.Equal(t, Authenticated, s.State())
	assert.Equal(t, "new-token", tokens.token)
}

func TestLogoutIsSynchronous(t *testing.T) {
	identity := &fakeIdentity{meUser: &model.User{ID: "u1"}}
	tokens := &fakeTokens{token: "stored-token"}
	s := New(identity, tokens)
	s.Update(s.Initialize()())
	require.Equal(t, Authenticated, s.State())

	s.Logout()

	assert.Equal(t, Unauthenticated, s.State())
	assert.Nil(t, s.User())
	assert.Empty(t, tokens.token)
	assert.Empty(t, identity.token)
}
