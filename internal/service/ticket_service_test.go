package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/storage"
)

func newTicketService(t *testing.T) (*TicketService, *storage.Store, *recordingDispatcher) {
	t.Helper()
	store := newTestStore(t)
	dispatcher := &recordingDispatcher{}
	return NewTicketService(store, dispatcher, zap.NewNop()), store, dispatcher
}

func TestCreateTicket(t *testing.T) {
	svc, store, dispatcher := newTicketService(t)
	owner := createUser(t, store, "client@example.com", domain.RoleClient)

	ticket, err := svc.Create(context.Background(), TicketCreateInput{
		Title:       "  VPN <broken>  ",
		Description: "cannot connect <script>alert(1)</script>",
		Category:    "technical",
		Priority:    "high",
	}, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, "VPN broken", ticket.Title)
	assert.Equal(t, "cannot connect scriptalert(1)/script", ticket.Description)
	assert.Equal(t, domain.CategoryTechnical, ticket.Category)
	assert.Equal(t, domain.PriorityHigh, ticket.Priority)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, owner.ID, ticket.UserID)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, events.EventTicketCreated, dispatcher.events[0].Type)
}

func TestCreateTicketListsEveryViolation(t *testing.T) {
	svc, _, _ := newTicketService(t)

	_, err := svc.Create(context.Background(), TicketCreateInput{}, "owner-id")
	domainErr := requireDomainError(t, err, http.StatusBadRequest)
	assert.ElementsMatch(t, []string{
		"Title is required",
		"Description is required",
		"Category is required",
	}, domainErr.Errors)

	_, err = svc.Create(context.Background(), TicketCreateInput{
		Title:       "ok title",
		Description: "ok description",
		Category:    "complaints",
	}, "owner-id")
	domainErr = requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{"Invalid category"}, domainErr.Errors)
}

func TestListForUserScopedToOwner(t *testing.T) {
	svc, store, _ := newTicketService(t)
	alice := createUser(t, store, "alice@example.com", domain.RoleClient)
	bob := createUser(t, store, "bob@example.com", domain.RoleClient)

	_, err := svc.Create(context.Background(), TicketCreateInput{Title: "a1", Description: "d", Category: "other"}, alice.ID)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = svc.Create(context.Background(), TicketCreateInput{Title: "b1", Description: "d", Category: "other"}, bob.ID)
	require.NoError(t, err)

	aliceTickets := svc.ListForUser(alice.ID)
	require.Len(t, aliceTickets, 1)
	assert.Equal(t, "a1", aliceTickets[0].Title)

	all, err := svc.ListAll(domain.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListAllRequiresAdmin(t *testing.T) {
	svc, _, _ := newTicketService(t)

	_, err := svc.ListAll(domain.RoleClient)
	requireDomainError(t, err, http.StatusForbidden)
}

func TestGetByIDPermissions(t *testing.T) {
	svc, store, _ := newTicketService(t)
	owner := createUser(t, store, "owner@example.com", domain.RoleClient)
	other := createUser(t, store, "other@example.com", domain.RoleClient)

	ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: "t", Description: "d", Category: "account"}, owner.ID)
	require.NoError(t, err)

	got, err := svc.GetByID(ticket.ID, owner.ID, domain.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)

	got, err = svc.GetByID(ticket.ID, other.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)

	_, err = svc.GetByID(ticket.ID, other.ID, domain.RoleClient)
	requireDomainError(t, err, http.StatusForbidden)

	_, err = svc.GetByID("missing", owner.ID, domain.RoleAdmin)
	requireDomainError(t, err, http.StatusNotFound)
}

func TestUpdateStatus(t *testing.T) {
	svc, store, dispatcher := newTicketService(t)
	owner := createUser(t, store, "owner@example.com", domain.RoleClient)
	admin := store.UserByEmail(testAdminEmail)

	ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: "t", Description: "d", Category: "billing"}, owner.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), ticket.ID, "in-progress", admin.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	// any transition within the enum is allowed, including backward
	updated, err = svc.UpdateStatus(context.Background(), ticket.ID, "open", admin.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, updated.Status)

	last := dispatcher.events[len(dispatcher.events)-1]
	require.Equal(t, events.EventTicketStatusChanged, last.Type)
	payload, ok := last.Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusInProgress, payload.OldStatus)
	assert.Equal(t, domain.TicketStatusOpen, payload.NewStatus)
}

func TestUpdateStatusRejections(t *testing.T) {
	svc, store, _ := newTicketService(t)
	owner := createUser(t, store, "owner@example.com", domain.RoleClient)

	ticket, err := svc.Create(context.Background(), TicketCreateInput{Title: "t", Description: "d", Category: "billing"}, owner.ID)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), ticket.ID, "closed", owner.ID, domain.RoleClient)
	requireDomainError(t, err, http.StatusForbidden)

	_, err = svc.UpdateStatus(context.Background(), ticket.ID, "resolved", "admin-id", domain.RoleAdmin)
	domainErr := requireDomainError(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{"Status must be one of: open, in-progress, closed"}, domainErr.Errors)

	_, err = svc.UpdateStatus(context.Background(), "missing", "closed", "admin-id", domain.RoleAdmin)
	requireDomainError(t, err, http.StatusNotFound)
}

func TestStatisticsRequiresAdmin(t *testing.T) {
	svc, store, _ := newTicketService(t)
	owner := createUser(t, store, "owner@example.com", domain.RoleClient)

	_, err := svc.Create(context.Background(), TicketCreateInput{Title: "t", Description: "d", Category: "other"}, owner.ID)
	require.NoError(t, err)

	_, err = svc.Statistics(domain.RoleClient)
	requireDomainError(t, err, http.StatusForbidden)

	stats, err := svc.Statistics(domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTickets)
	assert.Equal(t, 1, stats.OpenTickets)
	assert.Equal(t, 1, stats.TotalUsers)
}
