// internal/app/system/notify/notify.go
package notify

import (
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// Kind classifies a notification and drives its defaults.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// State is the scheduler's lifecycle position.
type State int

const (
	// StateIdle means no notification is visible.
	StateIdle State = iota
	// StateShowing means one notification is visible and, when
	// auto-dismiss is on, counting down.
	StateShowing
	// StateDismissing is the brief exit-transition window. The
	// notification reference is retained for the animation only; its
	// fields are no longer mutated.
	StateDismissing
)

const (
	// tickInterval is how often the countdown ratio is recomputed, so
	// the progress indicator moves smoothly instead of jumping once.
	tickInterval = 100 * time.Millisecond

	// exitDelay is the fixed Dismissing -> Idle transition time.
	exitDelay = 200 * time.Millisecond

	successDismissAfter = 3 * time.Second
	defaultDismissAfter = 4 * time.Second
)

// Notification is a single ephemeral message.
type Notification struct {
	Kind         Kind
	Title        string
	Body         string
	AutoDismiss  bool
	DismissAfter time.Duration

	// RemainingRatio decreases linearly from 1 to 0 over DismissAfter
	// while the notification is showing; it drives the countdown bar.
	RemainingRatio float64
}

// Option overrides a kind-derived default on Show.
type Option func(*Notification)

// WithTitle replaces the kind-derived title.
func WithTitle(title string) Option {
	return func(n *Notification) { n.Title = title }
}

// WithAutoDismiss overrides the kind-derived auto-dismiss policy.
func WithAutoDismiss(auto bool) Option {
	return func(n *Notification) { n.AutoDismiss = auto }
}

// WithDismissAfter overrides the countdown duration. Non-positive
// values are ignored.
func WithDismissAfter(d time.Duration) Option {
	return func(n *Notification) {
		if d > 0 {
			n.DismissAfter = d
		}
	}
}

// Snapshot is the scheduler state handed to observers.
type Snapshot struct {
	State        State
	Notification Notification
	Active       bool // false when State is Idle
}

// Scheduler manages at most one ephemeral notification. Showing a new
// one replaces the current one atomically; a generation counter makes
// sure a cancelled countdown can never fire against its successor.
// One scheduler per application session.
type Scheduler struct {
	log      *zap.Logger
	sanitize *bluemonday.Policy
	tick     time.Duration
	exit     time.Duration

	mu       sync.Mutex
	state    State
	current  *Notification
	gen      uint64
	watchers []chan Snapshot
}

// New creates an idle scheduler.
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		log:      logger,
		sanitize: bluemonday.StrictPolicy(),
		tick:     tickInterval,
		exit:     exitDelay,
	}
}

// Show makes the notification visible, replacing any current one. The
// body is sanitized to plain text; title and auto-dismiss policy
// default from the kind (errors stay until acknowledged) unless
// overridden.
func (s *Scheduler) Show(kind Kind, body string, opts ...Option) {
	n := Notification{
		Kind:           kind,
		Title:          defaultTitle(kind),
		Body:           s.sanitize.Sanitize(body),
		AutoDismiss:    kind != KindError,
		DismissAfter:   defaultDelay(kind),
		RemainingRatio: 1,
	}
	for _, opt := range opts {
		opt(&n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := s.state != StateIdle
	// Bumping the generation cancels the previous countdown and any
	// pending exit transition in one move.
	s.gen++
	s.state = StateShowing
	s.current = &n
	s.log.Debug("notification shown",
		zap.String("kind", string(kind)),
		zap.Bool("replaced", replaced),
		zap.Bool("auto_dismiss", n.AutoDismiss))

	if n.AutoDismiss {
		go s.countdown(s.gen, time.Now(), n.DismissAfter)
	}
	s.notifyLocked()
}

// Dismiss begins the exit transition for the visible notification.
// It is a no-op when nothing is showing.
func (s *Scheduler) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateShowing {
		return
	}
	s.dismissLocked()
	s.notifyLocked()
}

// Visible returns a copy of the showing notification, if any.
func (s *Scheduler) Visible() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateShowing {
		return Notification{}, false
	}
	return *s.current, true
}

// Snapshot returns the full scheduler state, including the retained
// notification during the exit transition.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Watch returns a channel receiving a snapshot after every transition.
// Delivery is latest-wins.
func (s *Scheduler) Watch() <-chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Snapshot, 1)
	s.watchers = append(s.watchers, ch)
	ch <- s.snapshotLocked()
	return ch
}

// countdown recomputes the remaining ratio on a fixed tick until the
// countdown crosses zero or the generation is superseded.
func (s *Scheduler) countdown(gen uint64, started time.Time, total time.Duration) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		if s.gen != gen || s.state != StateShowing {
			// Superseded or dismissed: this tick is stale.
			s.mu.Unlock()
			return
		}
		ratio := 1 - float64(time.Since(started))/float64(total)
		if ratio <= 0 {
			s.current.RemainingRatio = 0
			s.dismissLocked()
			s.notifyLocked()
			s.mu.Unlock()
			return
		}
		s.current.RemainingRatio = ratio
		s.notifyLocked()
		s.mu.Unlock()
	}
}

// dismissLocked moves Showing -> Dismissing and schedules the Idle
// transition. The caller holds the lock.
func (s *Scheduler) dismissLocked() {
	s.gen++
	s.state = StateDismissing
	s.log.Debug("notification dismissing", zap.String("kind", string(s.current.Kind)))

	exitGen := s.gen
	time.AfterFunc(s.exit, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != exitGen || s.state != StateDismissing {
			// A replacement arrived during the exit transition.
			return
		}
		s.state = StateIdle
		s.current = nil
		s.notifyLocked()
	})
}

func (s *Scheduler) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state}
	if s.current != nil {
		snap.Notification = *s.current
		snap.Active = true
	}
	return snap
}

func (s *Scheduler) notifyLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func defaultTitle(kind Kind) string {
	switch kind {
	case KindSuccess:
		return "Success!"
	case KindError:
		return "Error"
	default:
		return "Information"
	}
}

func defaultDelay(kind Kind) time.Duration {
	if kind == KindSuccess {
		return successDismissAfter
	}
	return defaultDismissAfter
}
