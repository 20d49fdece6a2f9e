package store

import (
	"context"
	"database/sql"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/pkg/errors"

	"github.com/abhisek/recall/internal/card"
)

// ErrDuplicateDeck is returned when a deck name is already taken.
var ErrDuplicateDeck = errors.New("store: deck name already exists")

// sqlite builds dialect-aware statements.
var sqlite = entsql.Dialect(dialect.SQLite)

var deckColumns = []string{"id", "name", "created_at"}

type deckRepo struct {
	drv *entsql.Driver
}

func (r *deckRepo) Create(ctx context.Context, d card.Deck) error {
	query, args := sqlite.Insert(decksTable).
		Columns(deckColumns...).
		Values(d.ID, d.Name, d.CreatedAt.UTC()).
		Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return errors.Wrapf(ErrDuplicateDeck, "create deck %q", d.Name)
		}
		return errors.Wrap(err, "create deck")
	}
	return nil
}

func (r *deckRepo) Get(ctx context.Context, id string) (card.Deck, error) {
	return r.first(ctx, entsql.EQ("id", id))
}

func (r *deckRepo) GetByName(ctx context.Context, name string) (card.Deck, error) {
	return r.first(ctx, entsql.EQ("name", name))
}

func (r *deckRepo) first(ctx context.Context, p *entsql.Predicate) (card.Deck, error) {
	decks, err := r.query(ctx, sqlite.Select(deckColumns...).
		From(sqlite.Table(decksTable)).
		Where(p).
		Limit(1))
	if err != nil {
		return card.Deck{}, err
	}
	if len(decks) == 0 {
		return card.Deck{}, ErrNotFound
	}
	return decks[0], nil
}

func (r *deckRepo) List(ctx context.Context) ([]card.Deck, error) {
	return r.query(ctx, sqlite.Select(deckColumns...).
		From(sqlite.Table(decksTable)).
		OrderBy(entsql.Asc("name")))
}

func (r *deckRepo) Delete(ctx context.Context, id string) error {
	query, args := sqlite.Delete(decksTable).Where(entsql.EQ("id", id)).Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return errors.Wrap(err, "delete deck")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *deckRepo) query(ctx context.Context, sel *entsql.Selector) ([]card.Deck, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, errors.Wrap(err, "query decks")
	}
	defer rows.Close()

	var decks []card.Deck
	for rows.Next() {
		var d card.Deck
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan deck")
		}
		d.CreatedAt = d.CreatedAt.UTC()
		decks = append(decks, d)
	}
	return decks, errors.Wrap(rows.Err(), "iterate decks")
}
