package domain

// Statistics summarizes system activity for the admin dashboard.
// TotalUsers excludes the seeded admin account.
type Statistics struct {
	TotalTickets  int `json:"totalTickets"`
	OpenTickets   int `json:"openTickets"`
	ClosedTickets int `json:"closedTickets"`
	TotalUsers    int `json:"totalUsers"`
}
