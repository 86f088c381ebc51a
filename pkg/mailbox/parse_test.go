package mailbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crlf normalizes test fixtures to wire-format line endings.
func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func TestParseMessage_Plain(t *testing.T) {
	raw := crlf(`From: Student <student@example.com>
To: jarvis@example.com
Subject: New assignment
Message-Id: <m1@example.com>
Date: Mon, 20 Oct 2025 10:00:00 +0000
Content-Type: text/plain; charset=utf-8

Data Mining project due October 20th at 11:59 PM.
`)

	msg, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "student@example.com", msg.From)
	assert.Equal(t, "New assignment", msg.Subject)
	assert.Equal(t, "m1@example.com", msg.MessageID)
	assert.Equal(t, "Data Mining project due October 20th at 11:59 PM.", msg.Body)
	assert.Equal(t, 2025, msg.Date.Year())
}

func TestParseMessage_MultipartPrefersPlain(t *testing.T) {
	raw := crlf(`From: student@example.com
Subject: Notes
Message-Id: <m2@example.com>
Content-Type: multipart/alternative; boundary=BOUNDARY

--BOUNDARY
Content-Type: text/plain; charset=utf-8

plain text body
--BOUNDARY
Content-Type: text/html; charset=utf-8

<html><body><p>html body</p></body></html>
--BOUNDARY--
`)

	msg, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "plain text body", msg.Body)
}

func TestParseMessage_HTMLFallbackStripsTags(t *testing.T) {
	raw := crlf(`From: student@example.com
Subject: Notes
Content-Type: text/html; charset=utf-8

<html><body><p>only an html body</p></body></html>
`)

	msg, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "only an html body", msg.Body)
}

func TestParseMessage_MissingSubject(t *testing.T) {
	raw := crlf(`From: student@example.com
Content-Type: text/plain; charset=utf-8

hello
`)

	msg, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "No Subject", msg.Subject)
	assert.Equal(t, "hello", msg.Body)
}

func TestParseMessage_AttachmentIgnored(t *testing.T) {
	raw := crlf(`From: student@example.com
Subject: With attachment
Content-Type: multipart/mixed; boundary=BOUNDARY

--BOUNDARY
Content-Type: text/plain; charset=utf-8

see the attached file
--BOUNDARY
Content-Type: application/pdf
Content-Disposition: attachment; filename="syllabus.pdf"
Content-Transfer-Encoding: base64

JVBERi0xLjQ=
--BOUNDARY--
`)

	msg, err := ParseMessage(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "see the attached file", msg.Body)
}
