package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/auth"
	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/pkg/util"
)

func newAuthService(t *testing.T) (*AuthService, *auth.TokenManager, *recordingDispatcher) {
	t.Helper()
	store := newTestStore(t)
	tokens := auth.NewTokenManager("test-secret", 60)
	dispatcher := &recordingDispatcher{}
	return NewAuthService(store, tokens, dispatcher, zap.NewNop()), tokens, dispatcher
}

func TestRegisterReturnsDecodableToken(t *testing.T) {
	svc, tokens, dispatcher := newAuthService(t)

	user, token, err := svc.Register(context.Background(), "client@example.com", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, "client@example.com", user.Email)
	assert.Equal(t, domain.RoleClient, user.Role)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, domain.RoleClient, claims.Role)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, events.EventUserRegistered, dispatcher.events[0].Type)
}

func TestRegisterAdminRole(t *testing.T) {
	svc, tokens, _ := newAuthService(t)

	_, token, err := svc.Register(context.Background(), "boss@example.com", "secret1", domain.RoleAdmin)
	require.NoError(t, err)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, _, err := svc.Register(context.Background(), "client@example.com", "secret1", "")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "client@example.com", "other-password", "")
	domainErr := requireDomainError(t, err, http.StatusConflict)
	assert.Equal(t, "User already exists", domainErr.Message)
}

func TestConcurrentRegistrationsYieldOneAccount(t *testing.T) {
	svc, _, _ := newAuthService(t)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.Register(context.Background(), "client@example.com", "secret1", "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var domainErr *util.DomainError
		if assert.ErrorAs(t, err, &domainErr) {
			assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService(t)

	tests := []struct {
		name     string
		email    string
		password string
		role     domain.Role
		message  string
	}{
		{name: "bad email", email: "not-an-email", password: "secret1", message: "Invalid email format"},
		{name: "missing password", email: "a@b.co", password: "", message: "Password is required"},
		{name: "short password", email: "a@b.co", password: "abc", message: "Password must be at least 6 characters"},
		{name: "unknown role", email: "a@b.co", password: "secret1", role: "superuser", message: "Invalid role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.email, tt.password, tt.role)
			domainErr := requireDomainError(t, err, http.StatusBadRequest)
			assert.Equal(t, tt.message, domainErr.Message)
		})
	}
}

func TestLoginSucceeds(t *testing.T) {
	svc, tokens, _ := newAuthService(t)
	_, _, err := svc.Register(context.Background(), "client@example.com", "secret1", "")
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "client@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "client@example.com", user.Email)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newAuthService(t)
	_, _, err := svc.Register(context.Background(), "client@example.com", "secret1", "")
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "secret1")
	unknown := requireDomainError(t, unknownErr, http.StatusUnauthorized)

	_, _, wrongErr := svc.Login(context.Background(), "client@example.com", "wrong-password")
	wrong := requireDomainError(t, wrongErr, http.StatusUnauthorized)

	assert.Equal(t, unknown.Message, wrong.Message)
	assert.Equal(t, "Invalid credentials", wrong.Message)
}

func TestLoginRequiresEmailAndPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, _, err := svc.Login(context.Background(), "", "secret1")
	requireDomainError(t, err, http.StatusBadRequest)

	_, _, err = svc.Login(context.Background(), "client@example.com", "")
	requireDomainError(t, err, http.StatusBadRequest)
}
