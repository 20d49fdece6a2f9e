package store

import (
	"context"
	"database/sql"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/pkg/errors"

	"github.com/abhisek/recall/internal/card"
	"github.com/abhisek/recall/internal/quality"
)

var reviewColumns = []string{
	"sequence", "timestamp", "session_id", "card_id", "strategy", "known",
	"quality", "rating", "interval_days", "difficulty", "response_ms",
}

type reviewRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *reviewRepo) Append(ctx context.Context, rv Review) (Review, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return Review{}, errors.Wrap(err, "next sequence")
	}
	rv.Sequence = seqNum
	if err := insertReview(ctx, r.drv, &rv); err != nil {
		return Review{}, err
	}
	return rv, nil
}

func (r *reviewRepo) Record(ctx context.Context, c card.Card, rv Review) (Review, error) {
	// The sequence is taken before the tx: the counter runs on the pool,
	// which has a single connection the tx would otherwise hold.
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return Review{}, errors.Wrap(err, "next sequence")
	}
	rv.Sequence = seqNum
	rv.CardID = c.ID

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return Review{}, errors.Wrap(err, "begin tx")
	}
	if err := saveCard(ctx, tx, c); err != nil {
		return Review{}, rollback(tx, err)
	}
	if err := insertReview(ctx, tx, &rv); err != nil {
		return Review{}, rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return Review{}, errors.Wrap(err, "commit review")
	}
	return rv, nil
}

func insertReview(ctx context.Context, ex dialect.ExecQuerier, rv *Review) error {
	rv.Timestamp = rv.Timestamp.UTC()

	var session any
	if rv.SessionID != "" {
		session = rv.SessionID
	}
	query, args := sqlite.Insert(reviewsTable).
		Columns(reviewColumns...).
		Values(
			rv.Sequence, rv.Timestamp, session, rv.CardID, rv.Strategy, rv.Known,
			int(rv.Quality), int(rv.Rating), rv.IntervalDays, rv.Difficulty, rv.ResponseMs,
		).
		Query()
	var res sql.Result
	if err := ex.Exec(ctx, query, args, &res); err != nil {
		if sqlgraph.IsForeignKeyConstraintError(err) {
			return errors.Wrapf(ErrNotFound, "save review: card %s", rv.CardID)
		}
		return errors.Wrap(err, "save review")
	}
	return nil
}

func (r *reviewRepo) ListForCard(ctx context.Context, cardID string, opts QueryOpts) ([]Review, error) {
	preds := []*entsql.Predicate{entsql.EQ("card_id", cardID)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}

	sel := sqlite.Select(reviewColumns...).
		From(sqlite.Table(reviewsTable)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Asc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return r.query(ctx, sel)
}

func (r *reviewRepo) ListForSession(ctx context.Context, sessionID string) ([]Review, error) {
	return r.query(ctx, sqlite.Select(reviewColumns...).
		From(sqlite.Table(reviewsTable)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("sequence")))
}

func (r *reviewRepo) query(ctx context.Context, sel *entsql.Selector) ([]Review, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, errors.Wrap(err, "query reviews")
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var (
			rv      Review
			session sql.NullString
			q, rt   int
		)
		err := rows.Scan(
			&rv.Sequence, &rv.Timestamp, &session, &rv.CardID, &rv.Strategy, &rv.Known,
			&q, &rt, &rv.IntervalDays, &rv.Difficulty, &rv.ResponseMs,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan review")
		}
		rv.Timestamp = rv.Timestamp.UTC()
		rv.SessionID = session.String
		rv.Quality = quality.Quality(q)
		rv.Rating = quality.Rating(rt)
		out = append(out, rv)
	}
	return out, errors.Wrap(rows.Err(), "iterate reviews")
}
