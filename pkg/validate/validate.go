// Package validate centralizes input validation rules and sanitization.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
)

const (
	MinPasswordLength    = 6
	MaxTicketTitleLength = 100
	MaxMessageLength     = 2000
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email reports whether the address has a plausible mailbox@domain shape.
func Email(email string) bool {
	return emailRegex.MatchString(email)
}

// Password checks the minimum length rule. Returns a human-readable reason
// when invalid.
func Password(password string) (bool, string) {
	if password == "" {
		return false, "Password is required"
	}
	if len(password) < MinPasswordLength {
		return false, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)
	}
	return true, ""
}

// TicketInput carries the free-form fields checked by TicketData.
type TicketInput struct {
	Title       string
	Description string
	Category    string
}

// TicketData validates ticket creation input and returns every violation
// found, not just the first.
func TicketData(input TicketInput) []string {
	var errs []string

	if input.Title == "" {
		errs = append(errs, "Title is required")
	} else if len(input.Title) > MaxTicketTitleLength {
		errs = append(errs, fmt.Sprintf("Title must not exceed %d characters", MaxTicketTitleLength))
	}

	if input.Description == "" {
		errs = append(errs, "Description is required")
	}

	if input.Category == "" {
		errs = append(errs, "Category is required")
	} else if !domain.TicketCategory(input.Category).Valid() {
		errs = append(errs, "Invalid category")
	}

	return errs
}

// Message checks chat message content. Returns a human-readable reason when
// invalid.
func Message(content string) (bool, string) {
	if content == "" {
		return false, "Message is required"
	}
	if strings.TrimSpace(content) == "" {
		return false, "Message cannot be empty"
	}
	if len(content) > MaxMessageLength {
		return false, fmt.Sprintf("Message must not exceed %d characters", MaxMessageLength)
	}
	return true, ""
}

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// Sanitize trims whitespace and strips angle brackets from free text before
// it is stored or echoed back.
func Sanitize(input string) string {
	return angleBrackets.Replace(strings.TrimSpace(input))
}
