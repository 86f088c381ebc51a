package mailbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMessage(t *testing.T) {
	msg := formatMessage("jarvis@example.com", "student@example.com", "Re: Homework", "line one\nline two")

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	assert.True(t, found, "message must separate headers from body with a blank line")

	assert.Contains(t, headers, "From: jarvis@example.com\r\n")
	assert.Contains(t, headers, "To: student@example.com\r\n")
	assert.Contains(t, headers, "Subject: Re: Homework\r\n")
	assert.Contains(t, headers, "Content-Type: text/plain; charset=utf-8")

	assert.Equal(t, "line one\r\nline two", body)
}

func TestFormatMessage_EncodesNonASCIISubject(t *testing.T) {
	msg := formatMessage("jarvis@example.com", "student@example.com", "⚠️ Reminder", "body")

	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.NotContains(t, strings.SplitN(msg, "\r\n\r\n", 2)[0], "⚠️")
}
