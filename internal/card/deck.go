package card

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Deck owns a set of cards. It scopes reset and statistics.
type Deck struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDeck creates a deck with a fresh ID.
func NewDeck(name string, now time.Time) Deck {
	return Deck{ID: uuid.New().String(), Name: name, CreatedAt: now}
}

// InDeck returns the cards that belong to deckID, in input order. An empty
// deckID matches every card.
func InDeck(cards []Card, deckID string) []Card {
	if deckID == "" {
		return append([]Card(nil), cards...)
	}
	var out []Card
	for _, c := range cards {
		if c.DeckID == deckID {
			out = append(out, c)
		}
	}
	return out
}

// ResetAll resets every card. Cards are independent, so the work is spread
// over GOMAXPROCS workers. The input slice is not modified.
func ResetAll(ctx context.Context, cards []Card, now time.Time) ([]Card, error) {
	out := make([]Card, len(cards))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range cards {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Reset(cards[i], now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
