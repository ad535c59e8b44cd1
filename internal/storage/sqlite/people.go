package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/unify/pkg/canon"
	"github.com/agentstation/unify/pkg/errors"
)

// UpsertPerson writes one canonical person, keyed by person id. A new
// row is inserted; an existing row is updated in place, never losing
// its created_at. Device rows are unioned: a device recorded in an
// earlier batch survives a later batch that omits it. Reports whether
// the person was created (true) or updated (false).
func (b *Batch) UpsertPerson(ctx context.Context, person canon.Person) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if strings.TrimSpace(person.ID) == "" {
		return false, errors.NewValidationError("person_id", person.ID, "cannot be empty")
	}

	var exists int
	err := b.tx.QueryRowContext(ctx,
		"SELECT 1 FROM people WHERE person_id = ?", person.ID,
	).Scan(&exists)
	created := stderrors.Is(err, sql.ErrNoRows)
	if err != nil && !created {
		return false, fmt.Errorf("check person %s: %w", person.ID, err)
	}

	now := toMillis(time.Now())
	_, err = b.tx.ExecContext(ctx,
		`INSERT INTO people (
		   person_id, first_name, last_name, email, phone,
		   city, country, sources, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (person_id) DO UPDATE SET
		   first_name = excluded.first_name,
		   last_name  = excluded.last_name,
		   email      = excluded.email,
		   phone      = excluded.phone,
		   city       = excluded.city,
		   country    = excluded.country,
		   sources    = excluded.sources,
		   updated_at = excluded.updated_at`,
		person.ID,
		person.FirstName,
		person.LastName,
		nullable(person.Email),
		nullable(person.Phone),
		person.City,
		person.Country,
		person.Sources.Label(),
		now,
		now,
	)
	if err != nil {
		return false, wrapWrite("people", err)
	}

	for _, device := range person.Devices.List() {
		if _, err := b.tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO person_devices (person_id, device) VALUES (?, ?)",
			person.ID, device.String(),
		); err != nil {
			return false, wrapWrite("person_devices", err)
		}
	}

	return created, nil
}

// PersonIDByPhone resolves a phone number to a canonical person id
// within the batch, seeing rows written earlier in the same batch.
func (b *Batch) PersonIDByPhone(ctx context.Context, phone string) (string, error) {
	return b.personIDBy(ctx, "phone", phone)
}

// PersonIDByEmail resolves an email address to a canonical person id
// within the batch.
func (b *Batch) PersonIDByEmail(ctx context.Context, email string) (string, error) {
	return b.personIDBy(ctx, "email", email)
}

// PersonExists reports whether a canonical person id is present.
func (b *Batch) PersonExists(ctx context.Context, personID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var found int
	err := b.tx.QueryRowContext(ctx,
		"SELECT 1 FROM people WHERE person_id = ?", personID,
	).Scan(&found)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check person %s: %w", personID, err)
	}
	return true, nil
}

func (b *Batch) personIDBy(ctx context.Context, column, value string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if value == "" {
		return "", errors.ErrNotFound
	}
	var personID string
	err := b.tx.QueryRowContext(ctx,
		"SELECT person_id FROM people WHERE "+column+" = ?", value,
	).Scan(&personID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", errors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup person by %s: %w", column, err)
	}
	return personID, nil
}

// Person returns one canonical person by id, including devices.
func (s *Store) Person(ctx context.Context, personID string) (canon.Person, error) {
	if err := ctx.Err(); err != nil {
		return canon.Person{}, err
	}
	if s == nil || s.sqlDB == nil {
		return canon.Person{}, errors.New("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT person_id, first_name, last_name, email, phone,
		        city, country, sources
		   FROM people
		  WHERE person_id = ?`,
		personID,
	)

	var person canon.Person
	var email, phone sql.NullString
	var sourcesLabel string
	err := row.Scan(
		&person.ID,
		&person.FirstName,
		&person.LastName,
		&email,
		&phone,
		&person.City,
		&person.Country,
		&sourcesLabel,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return canon.Person{}, errors.ErrNotFound
	}
	if err != nil {
		return canon.Person{}, fmt.Errorf("get person %s: %w", personID, err)
	}
	person.Email = email.String
	person.Phone = phone.String
	person.Sources = canon.ParseTagLabel(sourcesLabel)

	person.Devices = canon.NewDeviceSet()
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT device FROM person_devices WHERE person_id = ? ORDER BY device",
		personID,
	)
	if err != nil {
		return canon.Person{}, fmt.Errorf("get person devices %s: %w", personID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var device string
		if err := rows.Scan(&device); err != nil {
			return canon.Person{}, fmt.Errorf("get person devices %s: %w", personID, err)
		}
		person.Devices.Add(canon.DeviceType(device))
	}
	if err := rows.Err(); err != nil {
		return canon.Person{}, fmt.Errorf("get person devices %s: %w", personID, err)
	}

	return person, nil
}

// Counts summarizes stored row counts per table, for operator reports.
type Counts struct {
	People           int
	Devices          int
	Transactions     int
	TransactionItems int
	Transfers        int
	Promotions       int
}

// Counts returns stored row counts per table.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Counts{}, errors.New("storage is not configured")
	}

	var counts Counts
	for _, target := range []struct {
		table string
		dest  *int
	}{
		{"people", &counts.People},
		{"person_devices", &counts.Devices},
		{"transactions", &counts.Transactions},
		{"transaction_items", &counts.TransactionItems},
		{"transfers", &counts.Transfers},
		{"promotions", &counts.Promotions},
	} {
		if err := s.sqlDB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM "+target.table,
		).Scan(target.dest); err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", target.table, err)
		}
	}
	return counts, nil
}
