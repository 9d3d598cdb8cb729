// internal/app/poll_loop.go
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StatusSource fetches the raw homework status answer for a cursor.
type StatusSource interface {
	Fetch(ctx context.Context, cursor int64) (any, error)
}

// Pacer blocks until the next cycle is due or ctx is done.
type Pacer interface {
	Wait(ctx context.Context) error
}

// CycleOutcome summarises how a poll cycle ended.
type CycleOutcome string

const (
	OutcomeStarting  CycleOutcome = "starting"
	OutcomeNotified  CycleOutcome = "notified"
	OutcomeDuplicate CycleOutcome = "unchanged"
	OutcomeNoUpdates CycleOutcome = "no_updates"
	OutcomeFailed    CycleOutcome = "failed"
)

// Snapshot is an immutable view of the loop state after a cycle.
type Snapshot struct {
	CycleID    string       `json:"cycle_id,omitempty"`
	Cursor     int64        `json:"cursor"`
	Outcome    CycleOutcome `json:"outcome"`
	Error      string       `json:"error,omitempty"`
	ErrorKind  string       `json:"error_kind,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	LastSentAt time.Time    `json:"last_sent_at"`
}

// PollLoop runs fetch, validate, translate and notify cycles one at a time.
// The cursor and the notifier belong to the goroutine calling Run or RunCycle.
type PollLoop struct {
	source   StatusSource
	notifier *Notifier
	pacer    Pacer
	logger   *logrus.Entry
	now      func() time.Time

	cursor     int64
	lastSentAt time.Time
	snapshot   atomic.Pointer[Snapshot]
}

// PollLoopOption configures a PollLoop.
type PollLoopOption func(*PollLoop)

// WithCursor sets the initial cursor instead of the current time.
func WithCursor(cursor int64) PollLoopOption {
	return func(l *PollLoop) { l.cursor = cursor }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) PollLoopOption {
	return func(l *PollLoop) { l.now = now }
}

func NewPollLoop(source StatusSource, notifier *Notifier, pacer Pacer, logger *logrus.Entry, opts ...PollLoopOption) *PollLoop {
	l := &PollLoop{
		source:   source,
		notifier: notifier,
		pacer:    pacer,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cursor == 0 {
		l.cursor = l.now().Unix()
	}
	l.snapshot.Store(&Snapshot{Cursor: l.cursor, Outcome: OutcomeStarting})
	return l
}

// Cursor returns the lower bound of the next poll window.
func (l *PollLoop) Cursor() int64 {
	return l.cursor
}

// Snapshot returns the state published after the last cycle. Safe for concurrent use.
func (l *PollLoop) Snapshot() Snapshot {
	return *l.snapshot.Load()
}

// Run polls until ctx is cancelled. Cycle errors never stop it.
func (l *PollLoop) Run(ctx context.Context) error {
	l.logger.WithField("cursor", l.cursor).Info("Poll loop started")
	for {
		l.RunCycle(ctx)
		if err := l.pacer.Wait(ctx); err != nil {
			l.logger.WithField("cursor", l.cursor).Info("Poll loop stopped")
			return err
		}
	}
}

// RunCycle performs one poll cycle and reports any failure to the chat.
func (l *PollLoop) RunCycle(ctx context.Context) Snapshot {
	cycleID := uuid.NewString()
	log := l.logger.WithFields(logrus.Fields{"cycle_id": cycleID, "cursor": l.cursor})

	outcome, err := l.safeCycle(ctx, log)
	snap := Snapshot{
		CycleID:   cycleID,
		Outcome:   outcome,
		CheckedAt: l.now(),
	}

	if err != nil && ctx.Err() == nil {
		kind := homework.Classify(err)
		snap.Error = err.Error()
		snap.ErrorKind = string(kind)
		log.WithError(err).WithField("kind", kind).Error("Poll cycle failed")
		if kind != homework.KindSend {
			l.report(ctx, log, kind, err)
		}
	}

	snap.Cursor = l.cursor
	snap.LastSentAt = l.lastSentAt
	l.snapshot.Store(&snap)
	return snap
}

// safeCycle turns a panic inside a cycle into an error so the loop keeps going.
func (l *PollLoop) safeCycle(ctx context.Context, log *logrus.Entry) (outcome CycleOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			log.WithFields(logrus.Fields{
				"correlation_id": correlationID,
				"panic":          fmt.Sprintf("%v", r),
				"stack":          string(debug.Stack()),
			}).Error("Poll cycle panicked")
			outcome = OutcomeFailed
			// Log-only correlation id: the report text must stay stable across cycles.
			err = fmt.Errorf("internal panic: %v", r)
		}
	}()
	return l.cycle(ctx, log)
}

func (l *PollLoop) cycle(ctx context.Context, log *logrus.Entry) (CycleOutcome, error) {
	raw, err := l.source.Fetch(ctx, l.cursor)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("fetch homework statuses: %w", err)
	}
	log.Debug("Practicum API request succeeded")

	resp, err := homework.Validate(raw)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("validate response: %w", err)
	}

	latest, ok := resp.Latest()
	if !ok {
		log.Debug("Homework list is empty")
		l.cursor = resp.CurrentDate
		return OutcomeNoUpdates, nil
	}

	message, err := homework.Translate(latest)
	if err != nil {
		// Keep the cursor so the same entry is retried next cycle.
		return OutcomeFailed, fmt.Errorf("translate homework: %w", err)
	}

	// The status has been observed even if delivery fails below.
	l.cursor = resp.CurrentDate

	delivery, err := l.notifier.Notify(ctx, message)
	if err != nil {
		return OutcomeFailed, err
	}
	if delivery == DeliveryUnchanged {
		return OutcomeDuplicate, nil
	}
	l.lastSentAt = l.now()
	return OutcomeNotified, nil
}

// report sends a best-effort description of a failed cycle to the chat.
func (l *PollLoop) report(ctx context.Context, log *logrus.Entry, kind homework.Kind, err error) {
	message := ReportMessage(kind, err)
	delivery, sendErr := l.notifier.Notify(ctx, message)
	switch {
	case sendErr != nil:
		log.WithError(sendErr).Warn("Failure report not delivered")
	case delivery == DeliverySent:
		l.lastSentAt = l.now()
	}
}

// ReportMessage renders the chat text describing a failed cycle.
func ReportMessage(kind homework.Kind, err error) string {
	if kind == homework.KindUnexpected {
		return fmt.Sprintf("Program failure: %v", err)
	}
	return fmt.Sprintf("error: %v", rootCause(err))
}

// rootCause strips the loop's own wrapping so reports stay short and stable.
func rootCause(err error) error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch e.(type) {
		case *homework.ConnectionError, *homework.RemoteUnavailableError, *homework.ShapeError,
			*homework.MissingFieldError, *homework.UnknownStatusError, *homework.SendError:
			return e
		}
	}
	return err
}
