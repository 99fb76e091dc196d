// Package call runs one inbound caller turn through the ordering dialogue.
package call

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/PabloGalante/callorder-agent/internal/app/extract"
	"github.com/PabloGalante/callorder-agent/internal/app/prompt"
	"github.com/PabloGalante/callorder-agent/internal/app/stage"
	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
	"github.com/PabloGalante/callorder-agent/internal/observability"
)

var ErrMissingCallID = errors.New("missing call id")

const (
	defaultTimeout    = 3 * time.Second
	defaultMaxTurns   = 200
	defaultSessionTTL = 30 * time.Minute
	repromptText      = "Are you still there? I'm listening."
)

type Options struct {
	Marker     string
	Timeout    time.Duration
	SweepEvery int // 0 disables sweeping
	MaxTurns   int
	SessionTTL time.Duration
	Fallbacks  Fallbacks
}

type Deps struct {
	Sessions   domain.SessionStore
	Responder  domain.Responder
	Classifier stage.Classifier
	Builder    *prompt.Builder
	Extractor  *extract.Extractor
	Menu       menu.Source
	Sink       domain.RecordSink // optional
}

type Service struct {
	sessions   domain.SessionStore
	responder  domain.Responder
	classifier stage.Classifier
	builder    *prompt.Builder
	extractor  *extract.Extractor
	menu       menu.Source
	sink       domain.RecordSink

	opts     Options
	now      func() time.Time
	orderID  func() string
	requests atomic.Uint64
}

func NewService(d Deps, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = defaultMaxTurns
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.Marker == "" {
		opts.Marker = "END_CALL"
	}
	if opts.Fallbacks.Generic == "" {
		opts.Fallbacks = DefaultFallbacks()
	}
	if d.Classifier == nil {
		d.Classifier = stage.NewKeywordClassifier()
	}
	if d.Menu == nil {
		d.Menu = menu.NewStatic(menu.Default())
	}
	if d.Builder == nil {
		d.Builder = prompt.NewBuilder(d.Menu, opts.Marker, 0, 0)
	}
	if d.Extractor == nil {
		d.Extractor = extract.New(opts.Marker, d.Menu)
	}

	return &Service{
		sessions:   d.Sessions,
		responder:  d.Responder,
		classifier: d.Classifier,
		builder:    d.Builder,
		extractor:  d.Extractor,
		menu:       d.Menu,
		sink:       d.Sink,
		opts:       opts,
		now:        time.Now,
		orderID:    func() string { return ulid.Make().String() },
	}
}

// SetClock replaces the time source. Meant for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

type TurnInput struct {
	CallID domain.CallID
	Text   string
}

type TurnOutput struct {
	CallID domain.CallID
	// Reply is what the caller hears, with the terminal marker removed.
	Reply string
	Stage domain.DialogueStage

	Reprompt   bool // nothing usable was said; the session is untouched
	Fallback   bool // the responder failed and a fixed utterance was used
	Terminated bool

	Record *domain.CallRecord // set when Terminated
}

// Greeting is the opening line spoken before the caller's first turn.
func (s *Service) Greeting() string {
	return fmt.Sprintf("Hello, %s, I'm listening.", s.menu.Catalog().Info.Name)
}

// HandleTurn appends the caller's words, asks the responder for the next
// utterance and appends it. A reply carrying the terminal marker ends the
// call: the order is extracted, handed to the sink and the session evicted.
// Responder failures never surface as errors.
func (s *Service) HandleTurn(ctx context.Context, in TurnInput) (*TurnOutput, error) {
	if in.CallID == "" {
		return nil, ErrMissingCallID
	}

	ctx = observability.WithCallID(ctx, in.CallID)
	log := observability.LoggerFromContext(ctx)

	text := strings.TrimSpace(in.Text)
	if text == "" {
		st := domain.StageOrdering
		if sess, ok := s.sessions.Get(in.CallID); ok {
			st = stage.Derive(s.classifier, s.opts.Marker, sess.Turns)
		}
		log.Info("re-prompting caller", "reason", domain.ErrEmptyInput.Error())
		return &TurnOutput{CallID: in.CallID, Reply: repromptText, Stage: st, Reprompt: true}, nil
	}

	sess := s.sessions.Append(in.CallID, domain.Turn{Role: domain.RoleUser, Text: text, OccurredAt: s.now()})
	s.maybeSweep(ctx, in.CallID)

	current := stage.Derive(s.classifier, s.opts.Marker, sess.Turns)
	payload := s.builder.Build(current, sess.Turns)
	log.Debug("payload built", "stage", current, "history", len(payload.History), "digest_len", len(payload.OrderDigest))

	out := &TurnOutput{CallID: in.CallID}

	reply, err := s.respond(ctx, payload.Request())
	if err != nil {
		log.Warn("responder failed, using fallback", "stage", current, "error", err)
		reply = s.opts.Fallbacks.For(current)
		out.Fallback = true
	}

	sess = s.sessions.Append(in.CallID, domain.Turn{Role: domain.RoleAssistant, Text: reply, OccurredAt: s.now()})
	out.Stage = stage.Transition(s.classifier, s.opts.Marker, current, sess.Turns)
	out.Reply = domain.StripMarker(reply, s.opts.Marker)

	if out.Stage == domain.StageFinalized {
		out.Terminated = true
		out.Record = s.finish(ctx, sess)
	}

	log.Info("turn handled",
		"stage", out.Stage,
		"turns", len(sess.Turns),
		"fallback", out.Fallback,
		"terminated", out.Terminated)

	return out, nil
}

// Session returns the live turn log of a call.
func (s *Service) Session(callID domain.CallID) (domain.Session, error) {
	sess, ok := s.sessions.Get(callID)
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Stage derives the current stage of a live call.
func (s *Service) Stage(sess domain.Session) domain.DialogueStage {
	return stage.Derive(s.classifier, s.opts.Marker, sess.Turns)
}

// Hangup drops a live call without extracting anything.
func (s *Service) Hangup(ctx context.Context, callID domain.CallID) {
	s.sessions.Evict(callID)
	observability.LoggerFromContext(observability.WithCallID(ctx, callID)).Info("call dropped")
}

// Marker is the terminal marker this service watches for.
func (s *Service) Marker() string {
	return s.opts.Marker
}

func (s *Service) respond(ctx context.Context, req domain.ResponderRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("responder panic: %v", r)}
			}
		}()
		text, err := s.responder.Respond(ctx, req)
		done <- result{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrResponderUnavailable, r.err)
		}
		if strings.TrimSpace(r.text) == "" {
			return "", fmt.Errorf("%w: empty reply", domain.ErrResponderUnavailable)
		}
		return r.text, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", domain.ErrResponderUnavailable, ctx.Err())
	}
}

// finish extracts, persists and evicts. Eviction happens even if saving fails.
func (s *Service) finish(ctx context.Context, sess domain.Session) *domain.CallRecord {
	log := observability.LoggerFromContext(ctx)

	order := s.extractor.Extract(sess.Turns)
	rec := &domain.CallRecord{
		CallID:    sess.CallID,
		OrderID:   s.orderID(),
		StartedAt: sess.CreatedAt,
		EndedAt:   s.now(),
		Turns:     sess.Turns,
		Order:     order,
	}

	if missing := order.Missing(); len(missing) > 0 {
		log.Info("order extracted with gaps", "order_id", rec.OrderID, "missing", missing)
	}
	if order.LowConfidence {
		log.Warn("order extraction low confidence", "order_id", rec.OrderID, "warnings", order.Warnings)
	}

	if s.sink != nil {
		if err := s.sink.SaveCall(context.WithoutCancel(ctx), rec); err != nil {
			log.Error("failed to save call", "order_id", rec.OrderID, "error", err)
		}
	}

	s.sessions.Evict(sess.CallID)
	log.Info("call finalized", "order_id", rec.OrderID, "items", len(order.Items))
	return rec
}

func (s *Service) maybeSweep(ctx context.Context, current domain.CallID) {
	every := uint64(s.opts.SweepEvery)
	if every == 0 || s.requests.Add(1)%every != 0 {
		return
	}
	evicted := s.sessions.Sweep(s.now(), s.opts.MaxTurns, s.opts.SessionTTL, current)
	if len(evicted) > 0 {
		observability.LoggerFromContext(ctx).Info("swept sessions", "count", len(evicted), "call_ids", evicted)
	}
}
