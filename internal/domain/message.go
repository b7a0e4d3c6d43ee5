package domain

import "time"

// Message is a chat entry attached to a ticket, authored by the ticket's
// owner or any admin. Messages are append-only and grouped by ticket.
type Message struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
