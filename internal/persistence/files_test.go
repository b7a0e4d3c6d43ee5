package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

func TestSaveAllLoadAllRoundTrip(t *testing.T) {
	files, err := NewFiles(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	in := Collections{
		Users: map[string]*domain.User{
			"u1": {ID: "u1", Email: "a@b.co", PasswordHash: "hash", Role: domain.RoleClient, CreatedAt: now},
		},
		Tickets: map[string]*domain.Ticket{
			"t1": {
				ID: "t1", Title: "title", Description: "desc",
				Category: domain.CategoryBilling, Status: domain.TicketStatusOpen,
				Priority: domain.PriorityLow, UserID: "u1",
				CreatedAt: now, UpdatedAt: now,
			},
		},
		Messages: map[string][]*domain.Message{
			"t1": {
				{ID: "m1", TicketID: "t1", UserID: "u1", Content: "hello", CreatedAt: now},
				{ID: "m2", TicketID: "t1", UserID: "u1", Content: "again", CreatedAt: now},
			},
		},
	}
	require.NoError(t, files.SaveAll(in))

	out := files.LoadAll()
	assert.Equal(t, in.Users, out.Users)
	assert.Equal(t, in.Tickets, out.Tickets)
	assert.Equal(t, in.Messages, out.Messages)
}

func TestLoadAllMissingFilesStartsEmpty(t *testing.T) {
	files, err := NewFiles(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	out := files.LoadAll()
	assert.Empty(t, out.Users)
	assert.Empty(t, out.Tickets)
	assert.Empty(t, out.Messages)
}

func TestLoadAllCorruptFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644))

	files, err := NewFiles(dir, zap.NewNop())
	require.NoError(t, err)

	out := files.LoadAll()
	assert.Empty(t, out.Users)
}

func TestSaveAllRewritesWholesale(t *testing.T) {
	dir := t.TempDir()
	files, err := NewFiles(dir, zap.NewNop())
	require.NoError(t, err)

	now := time.Now().UTC()
	c := Collections{
		Users:    map[string]*domain.User{"u1": {ID: "u1", Email: "a@b.co", CreatedAt: now}},
		Tickets:  map[string]*domain.Ticket{},
		Messages: map[string][]*domain.Message{},
	}
	require.NoError(t, files.SaveAll(c))

	delete(c.Users, "u1")
	require.NoError(t, files.SaveAll(c))

	out := files.LoadAll()
	assert.Empty(t, out.Users)
}
