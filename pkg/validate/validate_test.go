package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com", "x@sub.domain.org"}
	for _, email := range valid {
		assert.True(t, Email(email), email)
	}

	invalid := []string{"", "plain", "no@dot", "spaces in@mail.com", "@missing.local"}
	for _, email := range invalid {
		assert.False(t, Email(email), email)
	}
}

func TestPassword(t *testing.T) {
	ok, reason := Password("")
	assert.False(t, ok)
	assert.Equal(t, "Password is required", reason)

	ok, reason = Password("abc")
	assert.False(t, ok)
	assert.Equal(t, "Password must be at least 6 characters", reason)

	ok, _ = Password("secret1")
	assert.True(t, ok)
}

func TestTicketDataCollectsAllViolations(t *testing.T) {
	errs := TicketData(TicketInput{})
	assert.ElementsMatch(t, []string{
		"Title is required",
		"Description is required",
		"Category is required",
	}, errs)

	errs = TicketData(TicketInput{
		Title:       strings.Repeat("t", 101),
		Description: "d",
		Category:    "gossip",
	})
	assert.ElementsMatch(t, []string{
		"Title must not exceed 100 characters",
		"Invalid category",
	}, errs)

	errs = TicketData(TicketInput{Title: "t", Description: "d", Category: "billing"})
	assert.Empty(t, errs)
}

func TestMessage(t *testing.T) {
	ok, reason := Message("")
	assert.False(t, ok)
	assert.Equal(t, "Message is required", reason)

	ok, reason = Message("   ")
	assert.False(t, ok)
	assert.Equal(t, "Message cannot be empty", reason)

	ok, reason = Message(strings.Repeat("m", 2001))
	assert.False(t, ok)
	assert.Equal(t, "Message must not exceed 2000 characters", reason)

	ok, _ = Message("hello")
	assert.True(t, ok)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "scriptalert(1)/script", Sanitize(" <script>alert(1)</script> "))
	assert.Equal(t, "plain text", Sanitize("plain text"))
	assert.Equal(t, "", Sanitize("   "))
}
