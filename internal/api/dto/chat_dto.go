package dto

// AddMessageRequest payload for posting a chat message on a ticket.
type AddMessageRequest struct {
	Content string `json:"content"`
}
