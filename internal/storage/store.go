// Package storage is the exclusive in-memory owner of users, tickets, and
// messages for the process lifetime. Every mutation rewrites the persisted
// snapshot; a persistence failure is logged and never fails the caller.
package storage

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/auth"
	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/observability"
	"github.com/helpdeskhq/helpdesk-service/internal/persistence"
)

// ErrEmailTaken is returned by CreateUser when the email is already
// registered. Uniqueness is enforced under the write lock so concurrent
// registrations cannot both pass the check.
var ErrEmailTaken = errors.New("email already registered")

// Store holds all entities behind a single lock. Handlers run concurrently,
// so reads take the shared lock and mutations the exclusive one. Every
// accessor returns copies: callers never share memory with the maps, so a
// snapshot handed to one request stays stable while another request
// mutates. Saves run under the exclusive lock, which serializes snapshot
// writes.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*domain.User
	tickets    map[string]*domain.Ticket
	messages   map[string][]*domain.Message
	files      *persistence.Files
	logger     *zap.Logger
	metrics    *observability.Metrics
	bcryptCost int
}

// Options configures store construction.
type Options struct {
	Files         *persistence.Files
	Logger        *zap.Logger
	Metrics       *observability.Metrics
	BcryptCost    int
	AdminEmail    string
	AdminPassword string
}

// New hydrates the store from disk and seeds the default admin account when
// no users exist.
func New(opts Options) (*Store, error) {
	s := &Store{
		files:      opts.Files,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		bcryptCost: opts.BcryptCost,
	}

	data := opts.Files.LoadAll()
	s.users = data.Users
	s.tickets = data.Tickets
	s.messages = data.Messages

	if len(s.users) == 0 {
		if err := s.seedAdmin(opts.AdminEmail, opts.AdminPassword); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) seedAdmin(email, password string) error {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[admin.ID] = admin
	s.logger.Info("default admin account initialized", zap.String("email", email))
	s.persistLocked()
	return nil
}

// persistLocked writes the full snapshot and refreshes the collection-size
// gauges. Callers must hold the write lock (or be constructing the store).
func (s *Store) persistLocked() {
	err := s.files.SaveAll(persistence.Collections{
		Users:    s.users,
		Tickets:  s.tickets,
		Messages: s.messages,
	})
	if err != nil {
		s.logger.Error("failed to save data", zap.Error(err))
	}
	s.metrics.SetCollectionSize("users", len(s.users))
	s.metrics.SetCollectionSize("tickets", len(s.tickets))
	s.metrics.SetCollectionSize("messageGroups", len(s.messages))
}

// CreateUser hashes the password and stores a new user. Returns
// ErrEmailTaken when the email is already registered.
func (s *Store) CreateUser(email, password string, role domain.Role) (*domain.User, error) {
	// bcrypt is slow; hash before taking the lock
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	for _, existing := range s.users {
		if existing.Email == email {
			s.mu.Unlock()
			return nil, ErrEmailTaken
		}
	}
	s.users[user.ID] = user
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Info("user created",
		zap.String("userId", user.ID),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))
	return cloneUser(user), nil
}

// UserByEmail returns a copy of the user with the given email, or nil.
func (s *Store) UserByEmail(email string) *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return cloneUser(user)
		}
	}
	return nil
}

// UserByID returns a copy of the user with the given id, or nil.
func (s *Store) UserByID(id string) *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.users[id])
}

// TicketInput carries the sanitized fields for ticket creation.
type TicketInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	UserID      string
}

// CreateTicket stores a new ticket with status open.
func (s *Store) CreateTicket(input TicketInput) *domain.Ticket {
	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		UserID:      input.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.PriorityMedium
	}

	s.mu.Lock()
	s.tickets[ticket.ID] = ticket
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Info("ticket created",
		zap.String("ticketId", ticket.ID),
		zap.String("userId", ticket.UserID),
		zap.String("category", string(ticket.Category)))
	return cloneTicket(ticket)
}

// TicketsByUser returns copies of the user's tickets, newest first.
func (s *Store) TicketsByUser(userID string) []*domain.Ticket {
	s.mu.RLock()
	var tickets []*domain.Ticket
	for _, t := range s.tickets {
		if t.UserID == userID {
			tickets = append(tickets, cloneTicket(t))
		}
	}
	s.mu.RUnlock()
	sortTicketsNewestFirst(tickets)
	return tickets
}

// AllTickets returns copies of every ticket, newest first.
func (s *Store) AllTickets() []*domain.Ticket {
	s.mu.RLock()
	tickets := make([]*domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		tickets = append(tickets, cloneTicket(t))
	}
	s.mu.RUnlock()
	sortTicketsNewestFirst(tickets)
	return tickets
}

// TicketByID returns a copy of the ticket with the given id, or nil.
func (s *Store) TicketByID(id string) *domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTicket(s.tickets[id])
}

// UpdateTicketStatus mutates the ticket in place and bumps updatedAt.
// Returns a copy of the updated ticket, or nil when it is absent.
func (s *Store) UpdateTicketStatus(id string, status domain.TicketStatus) *domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now().UTC()
	s.persistLocked()

	s.logger.Info("ticket status updated",
		zap.String("ticketId", id),
		zap.String("status", string(status)))
	return cloneTicket(ticket)
}

// AddMessage appends a message to the ticket's thread, creating the thread
// when absent.
func (s *Store) AddMessage(ticketID, userID, content string) *domain.Message {
	message := &domain.Message{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.messages[ticketID] = append(s.messages[ticketID], message)
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Debug("message added",
		zap.String("messageId", message.ID),
		zap.String("ticketId", ticketID))
	return cloneMessage(message)
}

// MessagesByTicket returns copies of the ticket's thread in insertion
// order, or an empty slice.
func (s *Store) MessagesByTicket(ticketID string) []*domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	thread := s.messages[ticketID]
	out := make([]*domain.Message, len(thread))
	for i, m := range thread {
		out[i] = cloneMessage(m)
	}
	return out
}

// Statistics counts tickets by status and users excluding the seeded admin.
func (s *Store) Statistics() domain.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.Statistics{
		TotalTickets: len(s.tickets),
		TotalUsers:   len(s.users) - 1,
	}
	for _, t := range s.tickets {
		switch t.Status {
		case domain.TicketStatusOpen:
			stats.OpenTickets++
		case domain.TicketStatusClosed:
			stats.ClosedTickets++
		}
	}
	return stats
}

func sortTicketsNewestFirst(tickets []*domain.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}

func cloneMessage(m *domain.Message) *domain.Message {
	if m == nil {
		return nil
	}
	out := *m
	return &out
}
