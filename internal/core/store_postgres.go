package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/contactimport/internal/contacts"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contactsSchema = `
CREATE TABLE IF NOT EXISTS contacts (
	id            TEXT PRIMARY KEY,
	position      INTEGER NOT NULL,
	email         TEXT NOT NULL,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	company       TEXT,
	phone         TEXT,
	tags          TEXT[] NOT NULL DEFAULT '{}',
	lists         TEXT[] NOT NULL DEFAULT '{}',
	custom_fields JSONB NOT NULL DEFAULT '{}',
	subscribed    BOOLEAN NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	last_activity TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS contacts_position_idx ON contacts (position);
`

const selectContacts = `
SELECT id, email, first_name, last_name, company, phone, tags, lists,
       custom_fields, subscribed, created_at, last_activity
FROM contacts
ORDER BY position`

var contactColumns = []string{
	"id", "position", "email", "first_name", "last_name", "company", "phone",
	"tags", "lists", "custom_fields", "subscribed", "created_at", "last_activity",
}

// PostgresStore persists the collection in a single contacts table. The
// position column keeps the collection order stable across reads.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the contacts table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, contactsSchema); err != nil {
		return fmt.Errorf("migrate contacts: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) List(ctx context.Context) ([]contacts.Contact, error) {
	rows, err := s.pool.Query(ctx, selectContacts)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanContact)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return list, nil
}

// Update locks the table for the whole transaction, so a concurrent import
// waits and then sees this one's result. The table is rewritten in full
// because an update-policy merge can touch any row.
func (s *PostgresStore) Update(ctx context.Context, fn func([]contacts.Contact) ([]contacts.Contact, error)) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "LOCK TABLE contacts IN EXCLUSIVE MODE"); err != nil {
			return fmt.Errorf("lock contacts: %w", err)
		}

		rows, err := tx.Query(ctx, selectContacts)
		if err != nil {
			return fmt.Errorf("load contacts: %w", err)
		}
		existing, err := pgx.CollectRows(rows, scanContact)
		if err != nil {
			return fmt.Errorf("load contacts: %w", err)
		}

		next, err := fn(existing)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, "DELETE FROM contacts"); err != nil {
			return fmt.Errorf("clear contacts: %w", err)
		}
		if len(next) == 0 {
			return nil
		}

		n, err := tx.CopyFrom(ctx, pgx.Identifier{"contacts"}, contactColumns,
			pgx.CopyFromSlice(len(next), func(i int) ([]any, error) {
				return contactValues(i, next[i]), nil
			}))
		if err != nil {
			return fmt.Errorf("save contacts: %w", err)
		}
		if int(n) != len(next) {
			return fmt.Errorf("save contacts: wrote %d of %d rows", n, len(next))
		}
		return nil
	})
}

func contactValues(position int, c contacts.Contact) []any {
	custom := c.CustomFields
	if custom == nil {
		custom = map[string]any{}
	}
	return []any{
		c.ID,
		int32(position),
		c.Email,
		c.FirstName,
		c.LastName,
		PgTextFromPtr(c.Company),
		PgTextFromPtr(c.Phone),
		nonNilStrings(c.Tags),
		nonNilStrings(c.Lists),
		custom,
		c.Subscribed,
		PgTimestamptz(c.CreatedAt),
		PgTimestamptzFromPtr(c.LastActivity),
	}
}

func scanContact(row pgx.CollectableRow) (contacts.Contact, error) {
	var (
		c            contacts.Contact
		company      pgtype.Text
		phone        pgtype.Text
		createdAt    pgtype.Timestamptz
		lastActivity pgtype.Timestamptz
	)
	err := row.Scan(
		&c.ID, &c.Email, &c.FirstName, &c.LastName, &company, &phone,
		&c.Tags, &c.Lists, &c.CustomFields, &c.Subscribed, &createdAt, &lastActivity,
	)
	if err != nil {
		return contacts.Contact{}, err
	}
	c.Company = PtrFromPgText(company)
	c.Phone = PtrFromPgText(phone)
	c.CreatedAt = createdAt.Time
	c.LastActivity = PtrFromPgTimestamptz(lastActivity)
	if c.CustomFields == nil {
		c.CustomFields = map[string]any{}
	}
	return c, nil
}
