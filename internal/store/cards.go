package store

import (
	"context"
	"database/sql"
	"log/slog"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/pkg/errors"

	"github.com/abhisek/recall/internal/card"
)

var cardColumns = []string{
	"id", "deck_id", "front", "back", "created_at",
	"difficulty", "review_count", "last_reviewed_at", "next_review_at",
	"has_been_wrong", "was_wrong_in_session", "memory",
}

type cardRepo struct {
	drv    *entsql.Driver
	memory *memoryValidator
	logger *slog.Logger
}

func (r *cardRepo) Save(ctx context.Context, c card.Card) error {
	return saveCard(ctx, r.drv, c)
}

func (r *cardRepo) SaveAll(ctx context.Context, cards []card.Card) error {
	if len(cards) == 0 {
		return nil
	}
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	for _, c := range cards {
		if err := saveCard(ctx, tx, c); err != nil {
			return rollback(tx, err)
		}
	}
	return errors.Wrap(tx.Commit(), "commit cards")
}

func saveCard(ctx context.Context, ex dialect.ExecQuerier, c card.Card) error {
	mem, err := encodeMemory(c.Memory)
	if err != nil {
		return errors.Wrapf(err, "save card %s", c.ID)
	}
	query, args := sqlite.Insert(cardsTable).
		Columns(cardColumns...).
		Values(
			c.ID, c.DeckID, c.Front, c.Back, c.CreatedAt.UTC(),
			c.Difficulty, c.ReviewCount, c.LastReviewedAt.UTC(), c.NextReviewAt.UTC(),
			c.HasBeenWrong, c.WasWrongInSession, mem,
		).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	var res sql.Result
	if err := ex.Exec(ctx, query, args, &res); err != nil {
		if sqlgraph.IsForeignKeyConstraintError(err) {
			return errors.Wrapf(ErrNotFound, "save card %s: deck %s", c.ID, c.DeckID)
		}
		return errors.Wrapf(err, "save card %s", c.ID)
	}
	return nil
}

func (r *cardRepo) Get(ctx context.Context, id string) (card.Card, error) {
	cards, err := r.query(ctx, sqlite.Select(cardColumns...).
		From(sqlite.Table(cardsTable)).
		Where(entsql.EQ("id", id)).
		Limit(1))
	if err != nil {
		return card.Card{}, err
	}
	if len(cards) == 0 {
		return card.Card{}, ErrNotFound
	}
	return cards[0], nil
}

func (r *cardRepo) List(ctx context.Context, deckID string) ([]card.Card, error) {
	sel := sqlite.Select(cardColumns...).
		From(sqlite.Table(cardsTable)).
		OrderBy(entsql.Asc("created_at"), entsql.Asc("id"))
	if deckID != "" {
		sel.Where(entsql.EQ("deck_id", deckID))
	}
	return r.query(ctx, sel)
}

func (r *cardRepo) Delete(ctx context.Context, id string) error {
	query, args := sqlite.Delete(cardsTable).Where(entsql.EQ("id", id)).Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return errors.Wrap(err, "delete card")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cardRepo) query(ctx context.Context, sel *entsql.Selector) ([]card.Card, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, errors.Wrap(err, "query cards")
	}
	defer rows.Close()

	var cards []card.Card
	for rows.Next() {
		var (
			c   card.Card
			mem sql.NullString
		)
		err := rows.Scan(
			&c.ID, &c.DeckID, &c.Front, &c.Back, &c.CreatedAt,
			&c.Difficulty, &c.ReviewCount, &c.LastReviewedAt, &c.NextReviewAt,
			&c.HasBeenWrong, &c.WasWrongInSession, &mem,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan card")
		}
		c.CreatedAt = c.CreatedAt.UTC()
		c.LastReviewedAt = c.LastReviewedAt.UTC()
		c.NextReviewAt = c.NextReviewAt.UTC()

		m, err := r.memory.decode([]byte(mem.String))
		if err != nil {
			r.logger.Warn("dropping invalid scheduler memory",
				"card_id", c.ID,
				"error", err,
			)
			m = card.Memory{}
		}
		c.Memory = m
		cards = append(cards, c)
	}
	return cards, errors.Wrap(rows.Err(), "iterate cards")
}

func rollback(tx dialect.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		return errors.Wrapf(err, "rollback: %v", rerr)
	}
	return err
}
