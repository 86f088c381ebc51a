// Package scheduler sends daily assignment reminders.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"unihelper/internal/academic/domain"
	"unihelper/internal/academic/repository"
	"unihelper/pkg/mailbox"

	"github.com/robfig/cron/v3"
)

// ReminderScheduler runs once daily at a configured UTC time-of-day,
// finds pending assignments due within the lead window that have not
// been reminded, emails a reminder for each, and marks them reminded.
// The mark happens only after a successful send, so a failed send is
// retried on the next run (at-least-once).
type ReminderScheduler struct {
	assignments repository.AssignmentRepository
	classes     repository.ClassRepository
	gateway     mailbox.Gateway
	userEmail   string
	leadHours   int
	cron        *cron.Cron
}

// New creates a ReminderScheduler with injected dependencies.
func New(
	assignments repository.AssignmentRepository,
	classes repository.ClassRepository,
	gateway mailbox.Gateway,
	userEmail string,
	leadHours int,
) *ReminderScheduler {
	if leadHours <= 0 {
		leadHours = 24
	}
	return &ReminderScheduler{
		assignments: assignments,
		classes:     classes,
		gateway:     gateway,
		userEmail:   userEmail,
		leadHours:   leadHours,
		cron:        cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start schedules the daily check at hour:minute UTC.
func (s *ReminderScheduler) Start(hour, minute int) error {
	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := s.cron.AddFunc(spec, s.RunNow); err != nil {
		return fmt.Errorf("schedule reminder check: %w", err)
	}
	s.cron.Start()
	log.Printf("[Scheduler] Reminder scheduler started (daily at %02d:%02d UTC)", hour, minute)
	return nil
}

// Stop stops the scheduler and waits for a running check to finish.
func (s *ReminderScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[Scheduler] Reminder scheduler stopped")
}

// RunNow performs one reminder check. Exposed for manual triggering.
func (s *ReminderScheduler) RunNow() {
	ctx := context.Background()

	assignments, err := s.assignments.GetDueSoon(s.leadHours)
	if err != nil {
		log.Printf("[Scheduler] Due-soon lookup failed: %v", err)
		return
	}
	if len(assignments) == 0 {
		log.Println("[Scheduler] No reminders to send")
		return
	}

	log.Printf("[Scheduler] Found %d assignment(s) needing reminders", len(assignments))

	for _, assignment := range assignments {
		subject := fmt.Sprintf("⚠️ Reminder: %s Due Soon", assignment.Title)
		body := s.reminderBody(assignment)

		if err := s.gateway.Send(ctx, s.userEmail, subject, body); err != nil {
			// Left unmarked on purpose: the next run retries it
			log.Printf("[Scheduler] Reminder send failed for %q: %v", assignment.Title, err)
			continue
		}
		if err := s.assignments.MarkReminded(assignment.ID); err != nil {
			log.Printf("[Scheduler] Mark reminded failed for %q: %v", assignment.Title, err)
			continue
		}
		log.Printf("[Scheduler] Sent reminder: %s", assignment.Title)
	}
}

func (s *ReminderScheduler) reminderBody(assignment *domain.Assignment) string {
	className := "General"
	if assignment.ClassID != nil {
		if class, err := s.classes.FindByID(*assignment.ClassID); err == nil && class != nil {
			className = class.Name
		}
	}

	hoursRemaining := int(time.Until(assignment.DueDate).Hours())

	body := fmt.Sprintf(`Good morning, sir.

⚠️ Assignment Reminder

📚 Class: %s
📝 Assignment: %s
📅 Due: %s
⏰ Time Remaining: %d hours
`,
		className,
		assignment.Title,
		assignment.DueDate.Format("January 2, 2006 at 3:04 PM"),
		hoursRemaining,
	)

	if assignment.Description != "" {
		body += fmt.Sprintf("\n📋 Details: %s\n", assignment.Description)
	}

	body += `
I recommend you start working on this if you haven't already.

- Jarvis`
	return body
}
