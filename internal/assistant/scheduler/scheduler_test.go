package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"unihelper/internal/academic/domain"
	"unihelper/internal/academic/repository"
	"unihelper/pkg/mailbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeGateway struct {
	sendErr error
	sent    []sentMail
}

func (g *fakeGateway) FetchUnread(context.Context) ([]mailbox.Message, error) {
	return nil, nil
}

func (g *fakeGateway) Send(_ context.Context, to, subject, body string) error {
	if g.sendErr != nil {
		return g.sendErr
	}
	g.sent = append(g.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (g *fakeGateway) MarkRead(context.Context, uint32) error { return nil }

type schedulerEnv struct {
	assignments repository.AssignmentRepository
	classes     repository.ClassRepository
	gateway     *fakeGateway
	scheduler   *ReminderScheduler
}

func newSchedulerEnv(t *testing.T) *schedulerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Class{}, &domain.Assignment{}))

	assignments := repository.NewAssignmentRepository(db)
	classes := repository.NewClassRepository(db)
	gateway := &fakeGateway{}

	return &schedulerEnv{
		assignments: assignments,
		classes:     classes,
		gateway:     gateway,
		scheduler:   New(assignments, classes, gateway, "me@example.com", 24),
	}
}

func TestReminderScheduler_SendsAndMarks(t *testing.T) {
	env := newSchedulerEnv(t)

	class, err := env.classes.GetOrCreate("Data Mining")
	require.NoError(t, err)

	assignment := &domain.Assignment{
		ClassID: &class.ID,
		Title:   "Classification Project",
		DueDate: time.Now().UTC().Add(10 * time.Hour),
	}
	require.NoError(t, env.assignments.Create(assignment))

	env.scheduler.RunNow()

	require.Len(t, env.gateway.sent, 1)
	mail := env.gateway.sent[0]
	assert.Equal(t, "me@example.com", mail.to)
	assert.Contains(t, mail.subject, "Classification Project")
	assert.Contains(t, mail.body, "Data Mining")

	stored, err := env.assignments.FindByID(assignment.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotNil(t, stored.RemindedAt)
}

func TestReminderScheduler_SecondRunIsIdempotent(t *testing.T) {
	env := newSchedulerEnv(t)

	require.NoError(t, env.assignments.Create(&domain.Assignment{
		Title:   "Essay",
		DueDate: time.Now().UTC().Add(10 * time.Hour),
	}))

	env.scheduler.RunNow()
	env.scheduler.RunNow()

	assert.Len(t, env.gateway.sent, 1)
}

func TestReminderScheduler_FailedSendRetriesNextRun(t *testing.T) {
	env := newSchedulerEnv(t)

	assignment := &domain.Assignment{
		Title:   "Lab Report",
		DueDate: time.Now().UTC().Add(10 * time.Hour),
	}
	require.NoError(t, env.assignments.Create(assignment))

	env.gateway.sendErr = errors.New("smtp unavailable")
	env.scheduler.RunNow()

	// Left unmarked so the next run picks it up again
	stored, err := env.assignments.FindByID(assignment.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RemindedAt)

	env.gateway.sendErr = nil
	env.scheduler.RunNow()

	require.Len(t, env.gateway.sent, 1)
	stored, err = env.assignments.FindByID(assignment.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.RemindedAt)
}

func TestReminderScheduler_IgnoresOutOfWindow(t *testing.T) {
	env := newSchedulerEnv(t)

	require.NoError(t, env.assignments.Create(&domain.Assignment{
		Title:   "Far away",
		DueDate: time.Now().UTC().Add(30 * 24 * time.Hour),
	}))

	env.scheduler.RunNow()
	assert.Empty(t, env.gateway.sent)
}

func TestReminderScheduler_UnknownClassFallsBackToGeneral(t *testing.T) {
	env := newSchedulerEnv(t)

	require.NoError(t, env.assignments.Create(&domain.Assignment{
		Title:   "Orphan assignment",
		DueDate: time.Now().UTC().Add(10 * time.Hour),
	}))

	env.scheduler.RunNow()

	require.Len(t, env.gateway.sent, 1)
	assert.Contains(t, env.gateway.sent[0].body, "General")
}
