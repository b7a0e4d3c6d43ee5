package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	long := strings.Repeat("é", 20) + strings.Repeat("界", 20)
	cut := truncate(long, 25)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, strings.Repeat("é", 20)+strings.Repeat("界", 5)+"...", cut)

	// max counts runes, not bytes
	assert.Equal(t, "ééé", truncate("ééé", 3))
}

func TestNotifierPostsEmbed(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewDiscordNotifier(server.URL, zap.NewNop())
	notifier.NotifyNewTicket(context.Background(), &domain.Ticket{
		ID:          "ticket-1",
		Title:       "printer on fire",
		Description: "smoke everywhere",
		Category:    domain.CategoryTechnical,
		Priority:    domain.PriorityHigh,
		Status:      domain.TicketStatusOpen,
	}, domain.PublicUser{Email: "client@example.com", Role: domain.RoleClient})

	assert.Contains(t, received, "New Ticket Created")
	assert.Contains(t, received, "printer on fire")
	assert.Contains(t, received, "client@example.com")
}

func TestDisabledNotifierSkipsSend(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	notifier := NewDiscordNotifier("", zap.NewNop())
	notifier.NotifyNewUser(context.Background(), domain.PublicUser{Email: "client@example.com"})
	assert.Zero(t, calls)
}

func TestNotifierSwallowsWebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewDiscordNotifier(server.URL, zap.NewNop())
	// an erroring webhook must not panic or surface to the caller
	notifier.NotifyNewUser(context.Background(), domain.PublicUser{Email: "client@example.com"})
}
