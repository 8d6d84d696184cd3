package notifier

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/inkwell-hq/inkwell/internal/audit"
	"github.com/inkwell-hq/inkwell/internal/events"
	"github.com/inkwell-hq/inkwell/internal/models"
	"github.com/inkwell-hq/inkwell/internal/repository"
	"github.com/inkwell-hq/inkwell/pkg/logger"
	"go.uber.org/zap"
)

// Notifier consumes post events: every event is written to the audit
// log, and post creations additionally fan out email to subscribed
// users. It runs on its own goroutine and never blocks the request that
// published the event.
type Notifier struct {
	users      *repository.UserRepository
	mailer     Mailer
	audit      *audit.Logger
	batchSize  int
	batchDelay time.Duration
}

func New(users *repository.UserRepository, mailer Mailer, auditLog *audit.Logger, batchSize int, batchDelay time.Duration) *Notifier {
	if batchSize < 1 {
		batchSize = 10
	}

	return &Notifier{
		users:      users,
		mailer:     mailer,
		audit:      auditLog,
		batchSize:  batchSize,
		batchDelay: batchDelay,
	}
}

// Run drains the event channel until it is closed.
func (n *Notifier) Run(ch <-chan events.PostEvent) {
	for ev := range ch {
		n.Handle(ev)
	}
}

// Handle processes a single event.
func (n *Notifier) Handle(ev events.PostEvent) {
	if err := n.audit.Record(ev); err != nil {
		logger.Log.Error("Failed to write audit log entry",
			zap.String("kind", string(ev.Kind)),
			zap.String("post_id", ev.PostID.String()),
			zap.Error(err),
		)
	}

	if ev.Kind == events.PostCreated {
		n.notifySubscribers(ev)
	}
}

// notifySubscribers emails every active user with an email address,
// excluding the author, in fixed-size batches with a pause between
// batches to stay under transport rate limits. Failed sends are tallied
// and logged, never retried.
func (n *Notifier) notifySubscribers(ev events.PostEvent) {
	recipients, err := n.users.GetNotifiable(ev.AuthorID)
	if err != nil {
		logger.Log.Error("Failed to load notification recipients",
			zap.String("post_id", ev.PostID.String()),
			zap.Error(err),
		)
		return
	}
	if len(recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("New post: %s", ev.Title)
	body := buildBody(ev)

	var sent, failed int64
	for start := 0; start < len(recipients); start += n.batchSize {
		end := start + n.batchSize
		if end > len(recipients) {
			end = len(recipients)
		}

		var wg sync.WaitGroup
		for _, user := range recipients[start:end] {
			wg.Add(1)
			go func(u models.User) {
				defer wg.Done()
				if err := n.mailer.Send(u.Email, subject, body); err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Log.Warn("Notification email failed",
						zap.String("recipient", u.Username),
						zap.Error(err),
					)
					return
				}
				atomic.AddInt64(&sent, 1)
			}(user)
		}
		wg.Wait()

		if end < len(recipients) {
			time.Sleep(n.batchDelay)
		}
	}

	logger.Log.Info("Post notification fan-out completed",
		zap.String("post_id", ev.PostID.String()),
		zap.Int64("sent", sent),
		zap.Int64("failed", failed),
	)
}

func buildBody(ev events.PostEvent) string {
	excerpt := ev.Content
	if len(excerpt) > 200 {
		excerpt = excerpt[:200] + "..."
	}

	return fmt.Sprintf(
		"%s just published a new post in %s.\n\n%s\n\n%s\n",
		ev.AuthorUsername, ev.Category, ev.Title, excerpt,
	)
}
