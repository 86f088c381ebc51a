package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"unihelper/internal/academic/domain"
	"unihelper/internal/academic/repository"
	"unihelper/internal/assistant/usecase"
	"unihelper/pkg/ai"
	"unihelper/pkg/mailbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type scriptedGenerator struct {
	responses []string
	calls     int
}

func (g *scriptedGenerator) GenerateText(_ context.Context, _, _ string) (string, error) {
	idx := g.calls
	g.calls++
	if idx >= len(g.responses) {
		return "", errors.New("scripted generator exhausted")
	}
	return g.responses[idx], nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeGateway struct {
	messages []mailbox.Message
	fetchErr error
	sendErr  error
	sent     []sentMail
	read     []uint32
}

func (g *fakeGateway) FetchUnread(context.Context) ([]mailbox.Message, error) {
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	return g.messages, nil
}

func (g *fakeGateway) Send(_ context.Context, to, subject, body string) error {
	if g.sendErr != nil {
		return g.sendErr
	}
	g.sent = append(g.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (g *fakeGateway) MarkRead(_ context.Context, uid uint32) error {
	g.read = append(g.read, uid)
	return nil
}

type pollerEnv struct {
	db        *gorm.DB
	gateway   *fakeGateway
	gen       *scriptedGenerator
	processed repository.ProcessedEmailRepository
	poller    *Poller
}

func newPollerEnv(t *testing.T, gateway *fakeGateway, responses ...string) *pollerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.Class{},
		&domain.Note{},
		&domain.Assignment{},
		&domain.ProcessedEmail{},
	))

	gen := &scriptedGenerator{responses: responses}
	extractor := usecase.NewExtractor(ai.NewJSONClient("scripted", gen))
	processor := usecase.NewProcessor(
		repository.NewClassRepository(db),
		repository.NewNoteRepository(db),
		repository.NewAssignmentRepository(db),
		extractor,
		24,
	)
	processed := repository.NewProcessedEmailRepository(db)

	return &pollerEnv{
		db:        db,
		gateway:   gateway,
		gen:       gen,
		processed: processed,
		poller:    New(gateway, processed, processor, time.Minute),
	}
}

func unreadMessage(uid uint32, messageID string) mailbox.Message {
	return mailbox.Message{
		UID:       uid,
		MessageID: messageID,
		From:      "student@example.com",
		Subject:   "hello",
		Body:      "hello there",
		Date:      time.Now().UTC(),
	}
}

func TestPoller_ProcessesAndMarks(t *testing.T) {
	gateway := &fakeGateway{messages: []mailbox.Message{unreadMessage(7, "<m1@example.com>")}}
	env := newPollerEnv(t, gateway, `{"intent": "GENERAL", "confidence": 0.6}`)

	env.poller.runCycle()

	require.Len(t, gateway.sent, 1)
	assert.Equal(t, "student@example.com", gateway.sent[0].to)
	assert.Equal(t, "Re: hello", gateway.sent[0].subject)
	assert.Contains(t, gateway.sent[0].body, "Acknowledged")

	assert.Equal(t, []uint32{7}, gateway.read)

	done, err := env.processed.IsProcessed("<m1@example.com>")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestPoller_SkipsAlreadyProcessed(t *testing.T) {
	gateway := &fakeGateway{messages: []mailbox.Message{unreadMessage(7, "<m1@example.com>")}}
	env := newPollerEnv(t, gateway)

	require.NoError(t, env.processed.MarkProcessed("<m1@example.com>", "hello"))

	env.poller.runCycle()

	assert.Empty(t, gateway.sent)
	assert.Empty(t, gateway.read)
	// Duplicate messages never reach the AI backend
	assert.Zero(t, env.gen.calls)
}

func TestPoller_FetchFailureSkipsCycle(t *testing.T) {
	gateway := &fakeGateway{
		messages: []mailbox.Message{unreadMessage(7, "<m1@example.com>")},
		fetchErr: &mailbox.TransportError{Op: "fetch", Err: errors.New("connection reset")},
	}
	env := newPollerEnv(t, gateway, `{"intent": "GENERAL"}`)

	env.poller.runCycle()
	assert.Empty(t, gateway.sent)

	done, err := env.processed.IsProcessed("<m1@example.com>")
	require.NoError(t, err)
	assert.False(t, done)

	// Connection recovers: the next cycle picks the message up
	gateway.fetchErr = nil
	env.poller.runCycle()

	require.Len(t, gateway.sent, 1)
	done, err = env.processed.IsProcessed("<m1@example.com>")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestPoller_OneBadMessageDoesNotAbortBatch(t *testing.T) {
	gateway := &fakeGateway{messages: []mailbox.Message{
		unreadMessage(1, "<bad@example.com>"),
		unreadMessage(2, "<good@example.com>"),
	}}
	// First message: malformed twice -> degraded general reply.
	// Second message: clean classification.
	env := newPollerEnv(t, gateway,
		"no json here",
		"still no json",
		`{"intent": "GENERAL", "confidence": 0.6}`,
	)

	env.poller.runCycle()

	require.Len(t, gateway.sent, 2)
	for _, id := range []string{"<bad@example.com>", "<good@example.com>"} {
		done, err := env.processed.IsProcessed(id)
		require.NoError(t, err)
		assert.True(t, done, "message %s should be marked processed", id)
	}
}

func TestPoller_SendFailureStillMarksProcessed(t *testing.T) {
	gateway := &fakeGateway{
		messages: []mailbox.Message{unreadMessage(7, "<m1@example.com>")},
		sendErr:  errors.New("smtp unavailable"),
	}
	env := newPollerEnv(t, gateway, `{"intent": "GENERAL"}`)

	env.poller.runCycle()

	// The reply is best effort; the marker still prevents reprocessing
	done, err := env.processed.IsProcessed("<m1@example.com>")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestPoller_StartStop(t *testing.T) {
	gateway := &fakeGateway{}
	env := newPollerEnv(t, gateway)

	env.poller.Start()
	env.poller.Stop()
}
