package mailbox

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

const (
	fetchAttempts = 5
	initialDelay  = 5 * time.Second
	maxDelay      = 60 * time.Second
)

// IMAPGateway implements Gateway against an IMAP server for fetching
// and an SMTP server for sending. A lost connection is rebuilt with
// capped exponential backoff; running out of attempts fails the
// current cycle, never the process.
type IMAPGateway struct {
	imapAddr string
	username string
	password string
	sender   *smtpSender
	conn     *client.Client

	// One connect-and-fetch attempt; swapped out in tests.
	fetchAttempt func() ([]Message, error)
	attempts     uint
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewIMAPGateway creates a gateway for one mailbox. imapAddr and
// smtpAddr are host:port with implicit TLS.
func NewIMAPGateway(imapAddr, smtpAddr, username, password string) *IMAPGateway {
	g := &IMAPGateway{
		imapAddr:     imapAddr,
		username:     username,
		password:     password,
		sender:       newSMTPSender(smtpAddr, username, password),
		attempts:     fetchAttempts,
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
	}
	g.fetchAttempt = g.connectAndFetch
	return g
}

// Connect dials and authenticates the IMAP session.
func (g *IMAPGateway) Connect() error {
	conn, err := client.DialTLS(g.imapAddr, nil)
	if err != nil {
		return &TransportError{Op: "dial", Err: err}
	}
	if err := conn.Login(g.username, g.password); err != nil {
		conn.Logout()
		return &TransportError{Op: "login", Err: err}
	}
	g.conn = conn
	log.Printf("[Mailbox] Connected to IMAP: %s", g.username)
	return nil
}

// Close logs out the IMAP session.
func (g *IMAPGateway) Close() error {
	if g.conn == nil {
		return nil
	}
	err := g.conn.Logout()
	g.conn = nil
	return err
}

func (g *IMAPGateway) ensureConnected() error {
	if g.conn != nil {
		return nil
	}
	return g.Connect()
}

func (g *IMAPGateway) dropConnection() {
	if g.conn != nil {
		g.conn.Logout()
		g.conn = nil
	}
}

// FetchUnread implements Gateway. Connection failures are retried with
// exponential backoff up to fetchAttempts before the cycle is given up.
func (g *IMAPGateway) FetchUnread(ctx context.Context) ([]Message, error) {
	var messages []Message
	err := retry.Do(
		func() error {
			fetched, err := g.fetchAttempt()
			if err != nil {
				return err
			}
			messages = fetched
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(g.attempts),
		retry.Delay(g.initialDelay),
		retry.MaxDelay(g.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[Mailbox] Fetch attempt %d failed: %v", n+1, err)
		}),
	)
	if err != nil {
		return nil, &TransportError{Op: "fetch", Err: err}
	}
	return messages, nil
}

// connectAndFetch is one attempt: reuse or rebuild the session, then
// fetch. A failed fetch tears the session down so the next attempt
// starts from a fresh dial.
func (g *IMAPGateway) connectAndFetch() ([]Message, error) {
	if err := g.ensureConnected(); err != nil {
		return nil, err
	}
	messages, err := g.fetchUnread()
	if err != nil {
		g.dropConnection()
		return nil, err
	}
	return messages, nil
}

func (g *IMAPGateway) fetchUnread() ([]Message, error) {
	if _, err := g.conn.Select("INBOX", false); err != nil {
		return nil, fmt.Errorf("select inbox: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	uids, err := g.conn.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("search unseen: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, section.FetchItem()}

	ch := make(chan *imap.Message, len(uids))
	done := make(chan error, 1)
	go func() {
		done <- g.conn.UidFetch(seqset, items, ch)
	}()

	var messages []Message
	for raw := range ch {
		body := raw.GetBody(section)
		if body == nil {
			continue
		}
		msg, err := ParseMessage(body)
		if err != nil {
			log.Printf("[Mailbox] Skipping unparsable message (uid %d): %v", raw.Uid, err)
			continue
		}
		msg.UID = raw.Uid
		if msg.MessageID == "" {
			// Rare, but dedup needs some stable identifier
			msg.MessageID = fmt.Sprintf("uid-%s-%d", strings.ToLower(g.username), raw.Uid)
		}
		messages = append(messages, msg)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch bodies: %w", err)
	}

	// Arrival order
	sort.Slice(messages, func(i, j int) bool { return messages[i].UID < messages[j].UID })
	return messages, nil
}

// MarkRead implements Gateway.
func (g *IMAPGateway) MarkRead(ctx context.Context, uid uint32) error {
	if err := g.ensureConnected(); err != nil {
		return err
	}
	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)
	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := g.conn.UidStore(seqset, item, []interface{}{imap.SeenFlag}, nil); err != nil {
		return &TransportError{Op: "mark read", Err: err}
	}
	return nil
}

// Send implements Gateway.
func (g *IMAPGateway) Send(ctx context.Context, to, subject, body string) error {
	return g.sender.Send(ctx, to, subject, body)
}
