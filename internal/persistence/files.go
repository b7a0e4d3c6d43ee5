// Package persistence handles durable state: wholesale JSON snapshots of the
// in-memory collections, and the optional Redis store backing the rate
// limiter.
package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	usersFile    = "users.json"
	ticketsFile  = "tickets.json"
	messagesFile = "messages.json"
)

// Collections bundles the three persisted data sets. Each is a flat
// key→record map; messages are keyed by ticket and hold the thread in
// insertion order.
type Collections struct {
	Users    map[string]*domain.User
	Tickets  map[string]*domain.Ticket
	Messages map[string][]*domain.Message
}

// Files persists collections as pretty-printed JSON under a data directory.
// Each save rewrites the file wholesale; there is no incremental log and no
// file lock, so the last writer wins.
type Files struct {
	dir    string
	logger *zap.Logger
}

// NewFiles ensures the data directory exists and returns the store.
func NewFiles(dir string, logger *zap.Logger) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Files{dir: dir, logger: logger}, nil
}

// SaveAll writes the three collections to disk.
func (f *Files) SaveAll(c Collections) error {
	if err := f.save(usersFile, c.Users); err != nil {
		return err
	}
	if err := f.save(ticketsFile, c.Tickets); err != nil {
		return err
	}
	if err := f.save(messagesFile, c.Messages); err != nil {
		return err
	}
	f.logger.Debug("all data saved",
		zap.Int("users", len(c.Users)),
		zap.Int("tickets", len(c.Tickets)),
		zap.Int("messageGroups", len(c.Messages)))
	return nil
}

// LoadAll reads the three collections from disk. A missing or unreadable
// file degrades to an empty collection rather than failing startup.
func (f *Files) LoadAll() Collections {
	c := Collections{
		Users:    map[string]*domain.User{},
		Tickets:  map[string]*domain.Ticket{},
		Messages: map[string][]*domain.Message{},
	}
	load(f, usersFile, &c.Users)
	load(f, ticketsFile, &c.Tickets)
	load(f, messagesFile, &c.Messages)
	f.logger.Info("data loaded",
		zap.Int("users", len(c.Users)),
		zap.Int("tickets", len(c.Tickets)),
		zap.Int("messageGroups", len(c.Messages)))
	return c
}

func (f *Files) save(name string, data any) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func load[T any](f *Files, name string, target *T) {
	path := filepath.Join(f.dir, name)
	payload, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Error("failed to read data file", zap.String("file", name), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(payload, target); err != nil {
		f.logger.Error("failed to parse data file, starting fresh",
			zap.String("file", name), zap.Error(err))
	}
}
