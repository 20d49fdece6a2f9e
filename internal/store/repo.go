package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/abhisek/recall/internal/card"
	"github.com/abhisek/recall/internal/quality"
)

// ErrNotFound is returned when a deck or card does not exist.
var ErrNotFound = errors.New("store: not found")

// QueryOpts configures review log queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Review is one entry in the append-only review log.
type Review struct {
	Sequence     int64
	Timestamp    time.Time
	SessionID    string
	CardID       string
	Strategy     string
	Known        bool
	Quality      quality.Quality
	Rating       quality.Rating // zero for the ease-factor scheduler
	IntervalDays int
	Difficulty   float64 // public difficulty after the review
	ResponseMs   int64
}

// DeckRepo manages decks.
type DeckRepo interface {
	// Create stores a new deck. Names are unique.
	Create(ctx context.Context, d card.Deck) error

	// Get returns the deck with id, or ErrNotFound.
	Get(ctx context.Context, id string) (card.Deck, error)

	// GetByName returns the deck called name, or ErrNotFound.
	GetByName(ctx context.Context, name string) (card.Deck, error)

	// List returns all decks ordered by name.
	List(ctx context.Context) ([]card.Deck, error)

	// Delete removes a deck together with its cards and their reviews.
	Delete(ctx context.Context, id string) error
}

// CardRepo manages cards and their scheduling state.
type CardRepo interface {
	// Save inserts or replaces a card.
	Save(ctx context.Context, c card.Card) error

	// SaveAll inserts or replaces cards in one transaction.
	SaveAll(ctx context.Context, cards []card.Card) error

	// Get returns the card with id, or ErrNotFound. Scheduler memory that
	// fails validation is dropped.
	Get(ctx context.Context, id string) (card.Card, error)

	// List returns the cards of a deck ordered by creation time. An empty
	// deckID lists every card.
	List(ctx context.Context, deckID string) ([]card.Card, error)

	// Delete removes a card and its reviews.
	Delete(ctx context.Context, id string) error
}

// ReviewRepo provides append and query access to the review log.
type ReviewRepo interface {
	// Append stamps r with the next sequence number and stores it.
	Append(ctx context.Context, r Review) (Review, error)

	// Record saves c and appends r for it in one transaction. Neither is
	// written when either write fails.
	Record(ctx context.Context, c card.Card, r Review) (Review, error)

	// ListForCard returns a card's reviews in sequence order.
	ListForCard(ctx context.Context, cardID string, opts QueryOpts) ([]Review, error)

	// ListForSession returns a session's reviews in sequence order.
	ListForSession(ctx context.Context, sessionID string) ([]Review, error)
}
