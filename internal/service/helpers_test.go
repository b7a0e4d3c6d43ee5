package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/persistence"
	"github.com/helpdeskhq/helpdesk-service/internal/storage"
	"github.com/helpdeskhq/helpdesk-service/pkg/util"
)

const testAdminEmail = "admin@support.com"

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	files, err := persistence.NewFiles(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	store, err := storage.New(storage.Options{
		Files:         files,
		Logger:        zap.NewNop(),
		BcryptCost:    bcrypt.MinCost,
		AdminEmail:    testAdminEmail,
		AdminPassword: "Admin123!",
	})
	require.NoError(t, err)
	return store
}

func createUser(t *testing.T, store *storage.Store, email string, role domain.Role) *domain.User {
	t.Helper()
	user, err := store.CreateUser(email, "secret1", role)
	require.NoError(t, err)
	return user
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) {
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) Subscribe(events.Type, events.Handler) {}

func requireDomainError(t *testing.T, err error, status int) *util.DomainError {
	t.Helper()
	require.Error(t, err)
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, status, domainErr.HTTPStatus)
	return domainErr
}
