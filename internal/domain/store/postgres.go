package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"domainnav/internal/domain/models"
	id "domainnav/pkg/domain"
	"domainnav/pkg/platform/sentinel"
)

const uniqueViolation = pq.ErrorCode("23505")

// PostgresStore persists domains in PostgreSQL with perspectives as JSONB.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed domain store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, d *models.Domain) error {
	perspectives, err := marshalPerspectives(d.Perspectives)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO domains (id, domain_name, description, perspectives, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query, d.ID.String(), d.DomainName, d.Description, perspectives, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("domain %s: %w", d.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert domain: %w", err)
	}
	return nil
}

// Update replaces the stored record. Concurrent writers are last-write-wins.
func (s *PostgresStore) Update(ctx context.Context, d *models.Domain) error {
	perspectives, err := marshalPerspectives(d.Perspectives)
	if err != nil {
		return err
	}
	query := `
		UPDATE domains
		SET domain_name = $2, description = $3, perspectives = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, d.ID.String(), d.DomainName, d.Description, perspectives, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update domain: %w", err)
	}
	return expectOneRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, domainID id.DomainID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM domains WHERE id = $1`, domainID.String())
	if err != nil {
		return fmt.Errorf("delete domain: %w", err)
	}
	return expectOneRow(res)
}

func (s *PostgresStore) FindByID(ctx context.Context, domainID id.DomainID) (*models.Domain, error) {
	query := `
		SELECT id, domain_name, description, perspectives, created_at, updated_at
		FROM domains WHERE id = $1
	`
	d, err := scanDomain(s.db.QueryRowContext(ctx, query, domainID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find domain: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Domain, error) {
	query := `
		SELECT id, domain_name, description, perspectives, created_at, updated_at
		FROM domains ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()

	var out []*models.Domain
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate domains: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDomain(row rowScanner) (*models.Domain, error) {
	var (
		d       models.Domain
		rawID   string
		rawJSON []byte
	)
	if err := row.Scan(&rawID, &d.DomainName, &d.Description, &rawJSON, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	domainID, err := id.ParseDomainID(rawID)
	if err != nil {
		return nil, fmt.Errorf("stored domain id %q: %w", rawID, err)
	}
	d.ID = domainID
	if len(rawJSON) > 0 {
		if err := json.Unmarshal(rawJSON, &d.Perspectives); err != nil {
			return nil, fmt.Errorf("decode perspectives: %w", err)
		}
	}
	return &d, nil
}

func marshalPerspectives(p models.Perspectives) ([]byte, error) {
	if p == nil {
		p = models.Perspectives{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode perspectives: %w", err)
	}
	return b, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
