// Package study runs review sessions over the card store: it loads a card,
// schedules the answer, persists the result and keeps the session tally.
package study

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/abhisek/recall/internal/analytics"
	"github.com/abhisek/recall/internal/card"
	"github.com/abhisek/recall/internal/queue"
	"github.com/abhisek/recall/internal/scheduler"
	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/store"
)

// ErrNoPredictor is returned by Predict when the service has no predictor.
var ErrNoPredictor = errors.New("study: prediction is not configured")

// Config wires a Service. Scheduler, Decks, Cards and Reviews are required.
type Config struct {
	Decks   store.DeckRepo
	Cards   store.CardRepo
	Reviews store.ReviewRepo

	Scheduler scheduler.Scheduler
	Queue     queue.Prioritizer
	Predictor *analytics.Predictor

	// Clock defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// Service coordinates scheduling and persistence for one learner.
type Service struct {
	decks   store.DeckRepo
	cards   store.CardRepo
	reviews store.ReviewRepo

	sched     scheduler.Scheduler
	queue     queue.Prioritizer
	predictor *analytics.Predictor
	tracker   *session.Tracker
	clock     func() time.Time
	logger    *slog.Logger
	locks     *cardLocks

	mu        sync.Mutex
	sessionID string
	studied   map[string]struct{}
}

// Outcome is the result of answering one card.
type Outcome struct {
	Card   card.Card        `json:"card"`
	Result scheduler.Result `json:"result"`
	// Sequence is the review log position of this answer.
	Sequence int64 `json:"sequence"`
}

// NewService creates a Service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Decks == nil || cfg.Cards == nil || cfg.Reviews == nil {
		return nil, errors.New("study: repositories are required")
	}
	if cfg.Scheduler == nil {
		return nil, errors.New("study: scheduler is required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		decks:     cfg.Decks,
		cards:     cfg.Cards,
		reviews:   cfg.Reviews,
		sched:     cfg.Scheduler,
		queue:     cfg.Queue,
		predictor: cfg.Predictor,
		tracker:   session.NewTracker(clock),
		clock:     clock,
		logger:    logger,
		locks:     newCardLocks(),
	}, nil
}

// Strategy reports the active scheduling strategy.
func (s *Service) Strategy() scheduler.Strategy {
	return s.sched.Strategy()
}

// CreateDeck stores a new deck.
func (s *Service) CreateDeck(ctx context.Context, name string) (card.Deck, error) {
	clean, err := sanitise(name)
	if err != nil {
		return card.Deck{}, errors.Wrap(err, "deck name")
	}
	d := card.NewDeck(clean, s.clock())
	if err := s.decks.Create(ctx, d); err != nil {
		return card.Deck{}, err
	}
	s.logger.Info("deck created", "deck_id", d.ID, "name", d.Name)
	return d, nil
}

// Decks lists all decks.
func (s *Service) Decks(ctx context.Context) ([]card.Deck, error) {
	return s.decks.List(ctx)
}

// Deck resolves ref as a deck name first, then as an ID.
func (s *Service) Deck(ctx context.Context, ref string) (card.Deck, error) {
	d, err := s.decks.GetByName(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		d, err = s.decks.Get(ctx, ref)
	}
	if err != nil {
		return card.Deck{}, errors.Wrapf(err, "deck %q", ref)
	}
	return d, nil
}

// DeleteDeck removes a deck together with its cards and review log.
func (s *Service) DeleteDeck(ctx context.Context, deckID string) error {
	if err := s.decks.Delete(ctx, deckID); err != nil {
		return errors.Wrapf(err, "delete deck %s", deckID)
	}
	s.logger.Info("deck deleted", "deck_id", deckID)
	return nil
}

// AddCard creates a card in deckID. Markup is stripped from both sides and
// a side left empty is rejected.
func (s *Service) AddCard(ctx context.Context, deckID, front, back string) (card.Card, error) {
	f, err := sanitise(front)
	if err != nil {
		return card.Card{}, errors.Wrap(err, "card front")
	}
	b, err := sanitise(back)
	if err != nil {
		return card.Card{}, errors.Wrap(err, "card back")
	}
	c := card.New(deckID, f, b, s.clock())
	if err := s.cards.Save(ctx, c); err != nil {
		return card.Card{}, err
	}
	s.logger.Debug("card added", "card_id", c.ID, "deck_id", deckID)
	return c, nil
}

// Card loads one card.
func (s *Service) Card(ctx context.Context, id string) (card.Card, error) {
	c, err := s.cards.Get(ctx, id)
	if err != nil {
		return card.Card{}, errors.Wrapf(err, "card %s", id)
	}
	return c, nil
}

// Cards lists the cards of a deck. An empty deckID lists every card.
func (s *Service) Cards(ctx context.Context, deckID string) ([]card.Card, error) {
	return s.cards.List(ctx, deckID)
}

// Begin starts a study session and returns its ID. Any session in progress
// is discarded and every card still flagged wrong-in-session is cleared.
func (s *Service) Begin(ctx context.Context) (string, error) {
	n, err := s.clearSessionFlags(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = uuid.New().String()
	s.studied = make(map[string]struct{})
	s.tracker.Start()
	s.logger.Info("session started", "session_id", s.sessionID, "flags_cleared", n)
	return s.sessionID, nil
}

// clearSessionFlags clears WasWrongInSession on every stored card in one
// transaction.
func (s *Service) clearSessionFlags(ctx context.Context) (int, error) {
	all, err := s.cards.List(ctx, "")
	if err != nil {
		return 0, errors.Wrap(err, "list cards")
	}
	var flagged []string
	for _, c := range all {
		if c.WasWrongInSession {
			flagged = append(flagged, c.ID)
		}
	}
	if len(flagged) == 0 {
		return 0, nil
	}

	// Locks are held until SaveAll returns.
	cleared := make([]card.Card, 0, len(flagged))
	for _, id := range flagged {
		unlock := s.locks.lock(id)
		defer unlock()

		c, err := s.cards.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, errors.Wrapf(err, "load card %s", id)
		}
		cleared = append(cleared, card.ClearSessionFlag(c))
	}
	if err := s.cards.SaveAll(ctx, cleared); err != nil {
		return 0, errors.Wrap(err, "clear session flags")
	}
	return len(cleared), nil
}

// SessionID returns the active session ID, or "" when idle.
func (s *Service) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Answer records a known/unknown answer for cardID. Answers given outside
// a session are scheduled and logged but not tallied.
func (s *Service) Answer(ctx context.Context, cardID string, known bool, responseTime time.Duration) (Outcome, error) {
	unlock := s.locks.lock(cardID)
	defer unlock()

	c, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "load card %s", cardID)
	}

	now := s.clock()
	bucket := session.BucketFor(card.Normalize(c).Difficulty)
	next, res := scheduler.Answer(s.sched, c, known, responseTime, now)

	sessionID := s.SessionID()
	rv, err := s.reviews.Record(ctx, next, store.Review{
		Timestamp:    now,
		SessionID:    sessionID,
		CardID:       cardID,
		Strategy:     string(res.Strategy),
		Known:        known,
		Quality:      res.QualityUsed,
		Rating:       res.Rating,
		IntervalDays: res.IntervalDays,
		Difficulty:   next.Difficulty,
		ResponseMs:   responseTime.Milliseconds(),
	})
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "record answer for card %s", cardID)
	}

	if sessionID != "" {
		if err := s.tracker.RecordAnswer(known, responseTime, bucket); err != nil {
			s.logger.Warn("session tally skipped", "card_id", cardID, "error", err)
		} else {
			s.mu.Lock()
			if s.studied != nil {
				s.studied[cardID] = struct{}{}
			}
			s.mu.Unlock()
		}
	}

	s.logger.Debug("card answered",
		"card_id", cardID,
		"known", known,
		"quality", res.QualityUsed,
		"interval_days", res.IntervalDays,
		"difficulty", next.Difficulty,
	)
	return Outcome{Card: next, Result: res, Sequence: rv.Sequence}, nil
}

// Summary returns the running session tally.
func (s *Service) Summary() session.Summary {
	return s.tracker.Summary()
}

// Finish ends the session. Cards studied in it have their
// WasWrongInSession flag cleared. Finishing while idle returns an empty
// summary. The session is ended even when clearing a flag fails; the
// first such error is returned with the summary.
func (s *Service) Finish(ctx context.Context) (session.Summary, error) {
	s.mu.Lock()
	studied := s.studied
	s.studied = nil
	s.sessionID = ""
	s.mu.Unlock()

	var firstErr error
	for id := range studied {
		if err := s.clearSessionFlag(ctx, id); err != nil {
			s.logger.Warn("session flag not cleared", "card_id", id, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	sum := s.tracker.Finish()
	if sum.Active {
		s.logger.Info("session finished",
			"cards", sum.CardsStudied,
			"retention", sum.RetentionRate,
			"efficiency", sum.Efficiency,
		)
	}
	return sum, firstErr
}

func (s *Service) clearSessionFlag(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	c, err := s.cards.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "load card %s", id)
	}
	if !c.WasWrongInSession {
		return nil
	}
	return errors.Wrapf(s.cards.Save(ctx, card.ClearSessionFlag(c)), "clear session flag on %s", id)
}

// ResetDeck clears the progress of every card in deckID and returns how
// many cards were reset.
func (s *Service) ResetDeck(ctx context.Context, deckID string) (int, error) {
	cards, err := s.cards.List(ctx, deckID)
	if err != nil {
		return 0, errors.Wrap(err, "list cards")
	}
	reset, err := card.ResetAll(ctx, cards, s.clock())
	if err != nil {
		return 0, errors.Wrap(err, "reset cards")
	}
	if err := s.cards.SaveAll(ctx, reset); err != nil {
		return 0, errors.Wrap(err, "save reset cards")
	}
	s.logger.Info("deck reset", "deck_id", deckID, "cards", len(reset))
	return len(reset), nil
}

// DueCards returns the review queue for deckID.
func (s *Service) DueCards(ctx context.Context, deckID string) ([]card.Card, error) {
	cards, err := s.cards.List(ctx, deckID)
	if err != nil {
		return nil, errors.Wrap(err, "list cards")
	}
	return s.queue.Due(cards, s.clock()), nil
}

// Stats summarizes deckID.
func (s *Service) Stats(ctx context.Context, deckID string) (analytics.Stats, error) {
	cards, err := s.cards.List(ctx, deckID)
	if err != nil {
		return analytics.Stats{}, errors.Wrap(err, "list cards")
	}
	return analytics.Compute(cards, s.clock()), nil
}

// Predict forecasts the workload of deckID over horizonDays.
func (s *Service) Predict(ctx context.Context, deckID string, horizonDays int) (analytics.Prediction, error) {
	if s.predictor == nil {
		return analytics.Prediction{}, ErrNoPredictor
	}
	cards, err := s.cards.List(ctx, deckID)
	if err != nil {
		return analytics.Prediction{}, errors.Wrap(err, "list cards")
	}
	return s.predictor.Predict(cards, s.clock(), horizonDays), nil
}

// Preview reports what each answer would do to cardID without saving.
func (s *Service) Preview(ctx context.Context, cardID string) (scheduler.Preview, error) {
	c, err := s.Card(ctx, cardID)
	if err != nil {
		return scheduler.Preview{}, err
	}
	return scheduler.PreviewAnswer(s.sched, c, 0, s.clock()), nil
}

// History returns the latest limit reviews of cardID, oldest first. limit 0
// means all.
func (s *Service) History(ctx context.Context, cardID string, limit int) ([]store.Review, error) {
	if _, err := s.Card(ctx, cardID); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListForCard(ctx, cardID, store.QueryOpts{})
	if err != nil {
		return nil, errors.Wrapf(err, "history for card %s", cardID)
	}
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[len(reviews)-limit:]
	}
	return reviews, nil
}
