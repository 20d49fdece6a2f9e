package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/pkg/errors"
)

// Table and column names used by the repositories.
const (
	decksTable   = "decks"
	cardsTable   = "cards"
	reviewsTable = "reviews"
)

var (
	// DecksColumns holds the columns for the "decks" table.
	DecksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// DecksTable holds the schema information for the "decks" table.
	DecksTable = &schema.Table{
		Name:       decksTable,
		Columns:    DecksColumns,
		PrimaryKey: []*schema.Column{DecksColumns[0]},
	}

	// CardsColumns holds the columns for the "cards" table.
	CardsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "deck_id", Type: field.TypeString},
		{Name: "front", Type: field.TypeString, Size: 2147483647},
		{Name: "back", Type: field.TypeString, Size: 2147483647},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "difficulty", Type: field.TypeFloat64, Default: 0},
		{Name: "review_count", Type: field.TypeInt, Default: 0},
		{Name: "last_reviewed_at", Type: field.TypeTime},
		{Name: "next_review_at", Type: field.TypeTime},
		{Name: "has_been_wrong", Type: field.TypeBool, Default: false},
		{Name: "was_wrong_in_session", Type: field.TypeBool, Default: false},
		{Name: "memory", Type: field.TypeJSON, Nullable: true},
	}
	// CardsTable holds the schema information for the "cards" table.
	CardsTable = &schema.Table{
		Name:       cardsTable,
		Columns:    CardsColumns,
		PrimaryKey: []*schema.Column{CardsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "cards_decks_cards",
				Columns:    []*schema.Column{CardsColumns[1]},
				RefColumns: []*schema.Column{DecksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "card_deck_id",
				Unique:  false,
				Columns: []*schema.Column{CardsColumns[1]},
			},
			{
				Name:    "card_next_review_at",
				Unique:  false,
				Columns: []*schema.Column{CardsColumns[8]},
			},
		},
	}

	// ReviewsColumns holds the columns for the "reviews" table.
	ReviewsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString, Nullable: true},
		{Name: "card_id", Type: field.TypeString},
		{Name: "strategy", Type: field.TypeString},
		{Name: "known", Type: field.TypeBool},
		{Name: "quality", Type: field.TypeInt},
		{Name: "rating", Type: field.TypeInt, Default: 0},
		{Name: "interval_days", Type: field.TypeInt},
		{Name: "difficulty", Type: field.TypeFloat64},
		{Name: "response_ms", Type: field.TypeInt64, Default: 0},
	}
	// ReviewsTable holds the schema information for the "reviews" table.
	ReviewsTable = &schema.Table{
		Name:       reviewsTable,
		Columns:    ReviewsColumns,
		PrimaryKey: []*schema.Column{ReviewsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "reviews_cards_reviews",
				Columns:    []*schema.Column{ReviewsColumns[4]},
				RefColumns: []*schema.Column{CardsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "review_card_id_sequence",
				Unique:  false,
				Columns: []*schema.Column{ReviewsColumns[4], ReviewsColumns[1]},
			},
			{
				Name:    "review_session_id",
				Unique:  false,
				Columns: []*schema.Column{ReviewsColumns[3]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		DecksTable,
		CardsTable,
		ReviewsTable,
	}
)

func init() {
	CardsTable.ForeignKeys[0].RefTable = DecksTable
	ReviewsTable.ForeignKeys[0].RefTable = CardsTable
}

// migrate creates or updates the tables.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv, schema.WithForeignKeys(true))
	if err != nil {
		return errors.Wrap(err, "create migrator")
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return errors.Wrap(err, "create tables")
	}
	return nil
}
