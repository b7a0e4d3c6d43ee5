// Package notify posts best-effort Discord webhook notifications for domain
// events. Failures are logged and swallowed; a notification problem never
// fails the request that triggered it.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DiscordNotifier sends rich embeds to a configured webhook URL. A notifier
// with no URL is disabled and skips every send.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

// NewDiscordNotifier builds a notifier. An empty webhookURL disables it.
func NewDiscordNotifier(webhookURL string, logger *zap.Logger) *DiscordNotifier {
	if webhookURL == "" {
		logger.Warn("discord webhook not configured, notifications disabled")
	} else {
		logger.Info("discord notifications enabled")
	}
	return &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Footer      *embedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

var priorityColors = map[domain.TicketPriority]int{
	domain.PriorityLow:    0x10b981,
	domain.PriorityMedium: 0xf59e0b,
	domain.PriorityHigh:   0xef4444,
}

var statusColors = map[domain.TicketStatus]int{
	domain.TicketStatusOpen:       0x3b82f6,
	domain.TicketStatusInProgress: 0xf59e0b,
	domain.TicketStatusClosed:     0x10b981,
}

const defaultColor = 0x6366f1

// NotifyNewUser announces a registration.
func (n *DiscordNotifier) NotifyNewUser(ctx context.Context, user domain.PublicUser) {
	n.send(ctx, embed{
		Title:       "New User Registered",
		Description: "A new account has been created",
		Color:       0x10b981,
		Fields: []embedField{
			{Name: "Email", Value: user.Email, Inline: true},
			{Name: "Role", Value: string(user.Role), Inline: true},
		},
		Footer: &embedFooter{Text: fmt.Sprintf("User ID: %s", user.ID)},
	})
}

// NotifyNewTicket announces a freshly created ticket.
func (n *DiscordNotifier) NotifyNewTicket(ctx context.Context, ticket *domain.Ticket, owner domain.PublicUser) {
	color, ok := priorityColors[ticket.Priority]
	if !ok {
		color = defaultColor
	}
	n.send(ctx, embed{
		Title:       "New Ticket Created",
		Description: ticket.Title,
		Color:       color,
		Fields: []embedField{
			{Name: "Category", Value: string(ticket.Category), Inline: true},
			{Name: "Priority", Value: string(ticket.Priority), Inline: true},
			{Name: "Status", Value: string(ticket.Status), Inline: true},
			{Name: "Client", Value: owner.Email},
			{Name: "Description", Value: truncate(ticket.Description, 200)},
		},
		Footer: &embedFooter{Text: fmt.Sprintf("Ticket ID: %s", ticket.ID)},
	})
}

// NotifyStatusChange announces a status transition.
func (n *DiscordNotifier) NotifyStatusChange(ctx context.Context, ticket *domain.Ticket, oldStatus, newStatus domain.TicketStatus, actor domain.PublicUser) {
	color, ok := statusColors[newStatus]
	if !ok {
		color = defaultColor
	}
	n.send(ctx, embed{
		Title:       "Ticket Status Changed",
		Description: ticket.Title,
		Color:       color,
		Fields: []embedField{
			{Name: "Old Status", Value: string(oldStatus), Inline: true},
			{Name: "New Status", Value: string(newStatus), Inline: true},
			{Name: "Changed By", Value: actor.Email},
		},
		Footer: &embedFooter{Text: fmt.Sprintf("Ticket ID: %s", ticket.ID)},
	})
}

// NotifyNewMessage announces a chat message on a ticket.
func (n *DiscordNotifier) NotifyNewMessage(ctx context.Context, ticket *domain.Ticket, message *domain.Message, author domain.PublicUser) {
	title := "New Message (Client)"
	color := defaultColor
	if author.Role == domain.RoleAdmin {
		title = "New Message (Admin)"
		color = 0xec4899
	}
	n.send(ctx, embed{
		Title:       title,
		Description: ticket.Title,
		Color:       color,
		Fields: []embedField{
			{Name: "From", Value: author.Email, Inline: true},
			{Name: "Ticket Status", Value: string(ticket.Status), Inline: true},
			{Name: "Message", Value: truncate(message.Content, 300)},
		},
		Footer: &embedFooter{Text: fmt.Sprintf("Ticket ID: %s", ticket.ID)},
	})
}

func (n *DiscordNotifier) send(ctx context.Context, e embed) {
	if n.webhookURL == "" {
		return
	}
	e.Timestamp = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(webhookPayload{Embeds: []embed{e}})
	if err != nil {
		n.logger.Error("failed to encode discord payload", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("failed to build discord request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error("failed to send discord notification", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.logger.Error("discord webhook rejected notification",
			zap.Int("status", resp.StatusCode))
		return
	}
	n.logger.Debug("discord notification sent", zap.String("title", e.Title))
}

// truncate shortens s to max runes. Cutting on rune boundaries keeps
// multi-byte content valid UTF-8.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
