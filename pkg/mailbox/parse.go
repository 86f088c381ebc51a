package mailbox

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/emersion/go-message/mail"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// ParseMessage reads one raw RFC 822 message and extracts the fields
// the pipeline needs. text/plain parts win; HTML is stripped to text
// as a fallback. Attachments are ignored.
func ParseMessage(r io.Reader) (Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return Message{}, fmt.Errorf("read message: %w", err)
	}

	var msg Message
	header := mr.Header

	if subject, err := header.Subject(); err == nil {
		msg.Subject = subject
	}
	if msg.Subject == "" {
		msg.Subject = "No Subject"
	}
	if msgID, err := header.MessageID(); err == nil {
		msg.MessageID = msgID
	}
	if date, err := header.Date(); err == nil {
		msg.Date = date
	}
	if addrs, err := header.AddressList("From"); err == nil && len(addrs) > 0 {
		msg.From = addrs[0].Address
	}

	var plain, html string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A broken part should not lose the rest of the message
			break
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			data, err := io.ReadAll(p.Body)
			if err != nil {
				continue
			}
			switch contentType {
			case "text/plain":
				if plain == "" {
					plain = string(data)
				}
			case "text/html":
				if html == "" {
					html = string(data)
				}
			}
		case *mail.AttachmentHeader:
			// Attachment staging is not part of the pipeline
			continue
		}
	}

	msg.Body = strings.TrimSpace(plain)
	if msg.Body == "" && html != "" {
		msg.Body = strings.TrimSpace(htmlTagPattern.ReplaceAllString(html, ""))
	}
	return msg, nil
}
