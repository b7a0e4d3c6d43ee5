package dto

// CreateTicketRequest payload for opening a ticket.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// UpdateStatusRequest payload for triaging a ticket.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
