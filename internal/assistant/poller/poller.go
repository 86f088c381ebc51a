// Package poller runs the deduplicated mailbox ingestion loop.
package poller

import (
	"context"
	"log"
	"sync"
	"time"

	"unihelper/internal/academic/repository"
	"unihelper/internal/assistant/usecase"
	"unihelper/pkg/mailbox"
)

// Poller polls the mailbox on a fixed interval and routes each new
// message through the processing pipeline. One bad message never
// aborts the batch; one bad cycle never aborts the loop. Cancellation
// happens between cycles, mid-cycle work is allowed to finish.
type Poller struct {
	gateway   mailbox.Gateway
	processed repository.ProcessedEmailRepository
	processor *usecase.Processor
	interval  time.Duration
	stopChan  chan struct{}
	doneWg    sync.WaitGroup
}

// New creates a Poller with injected dependencies.
func New(
	gateway mailbox.Gateway,
	processed repository.ProcessedEmailRepository,
	processor *usecase.Processor,
	interval time.Duration,
) *Poller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Poller{
		gateway:   gateway,
		processed: processed,
		processor: processor,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the polling loop in its own goroutine.
func (p *Poller) Start() {
	log.Printf("[Poller] Starting email polling (every %s)", p.interval)

	p.doneWg.Add(1)
	go func() {
		defer p.doneWg.Done()

		// Run immediately on start
		p.runCycle()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.runCycle()
			case <-p.stopChan:
				log.Println("[Poller] Polling stopped")
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for any in-flight cycle.
func (p *Poller) Stop() {
	close(p.stopChan)
	p.doneWg.Wait()
}

// runCycle fetches unread messages and processes them in arrival
// order. A fetch failure (the gateway already retried with backoff)
// ends the cycle early.
func (p *Poller) runCycle() {
	ctx := context.Background()

	messages, err := p.gateway.FetchUnread(ctx)
	if err != nil {
		log.Printf("[Poller] Fetch failed, skipping cycle: %v", err)
		return
	}
	if len(messages) == 0 {
		return
	}

	log.Printf("[Poller] Found %d unread message(s)", len(messages))

	for _, msg := range messages {
		p.handleMessage(ctx, msg)
	}
}

// handleMessage processes one message end to end. The processed marker
// is written after acting, not before: a crash in between means the
// message is reprocessed next cycle, never silently dropped.
func (p *Poller) handleMessage(ctx context.Context, msg mailbox.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Poller] Panic while processing %s: %v", msg.MessageID, r)
			if msg.From != "" {
				// Best-effort error reply; the loop moves on either way
				_ = p.gateway.Send(ctx, msg.From, usecase.ReplySubject(msg.Subject), usecase.ErrorReply())
			}
		}
	}()

	done, err := p.processed.IsProcessed(msg.MessageID)
	if err != nil {
		log.Printf("[Poller] Dedup check failed for %s: %v", msg.MessageID, err)
		return
	}
	if done {
		log.Printf("[Poller] Skipping already processed message: %s", msg.MessageID)
		return
	}

	log.Printf("[Poller] Processing: %s (from %s)", msg.Subject, msg.From)

	result := p.processor.ProcessEmail(ctx, msg)

	if msg.From != "" {
		if err := p.gateway.Send(ctx, msg.From, usecase.ReplySubject(msg.Subject), result.Reply); err != nil {
			log.Printf("[Poller] Reply send failed for %s: %v", msg.MessageID, err)
		}
	}

	if err := p.gateway.MarkRead(ctx, msg.UID); err != nil {
		log.Printf("[Poller] Mark read failed for %s: %v", msg.MessageID, err)
	}

	if err := p.processed.MarkProcessed(msg.MessageID, msg.Subject); err != nil {
		log.Printf("[Poller] Mark processed failed for %s: %v", msg.MessageID, err)
	}
}
