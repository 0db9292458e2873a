package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/salesmatrix/sales-matrix/internal/errs"
	"github.com/salesmatrix/sales-matrix/internal/model"
)

// ProductRepo implements ProductRepository using PostgreSQL.
type ProductRepo struct{ db *DB }

// NewProductRepo constructs a product repository.
func NewProductRepo(db *DB) *ProductRepo { return &ProductRepo{db: db} }

// List selects all products by ascending ID.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	const q = `
SELECT id, name, description, price, rating, status
FROM products ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Rating, &p.Status); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Upsert overwrites the record keyed by product ID.
func (r *ProductRepo) Upsert(ctx context.Context, p *model.Product) error {
	const q = `
INSERT INTO products (id, name, description, price, rating, status)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET name=$2, description=$3, price=$4, rating=$5, status=$6`
	_, err := r.db.Pool.Exec(ctx, q, p.ID, p.Name, p.Description, p.Price, p.Rating, p.Status)
	return err
}

// PasscodeRepo implements PasscodeRepository using PostgreSQL.
type PasscodeRepo struct{ db *DB }

// NewPasscodeRepo constructs a passcode repository.
func NewPasscodeRepo(db *DB) *PasscodeRepo { return &PasscodeRepo{db: db} }

// Put stores the code for email, superseding any prior one.
func (r *PasscodeRepo) Put(ctx context.Context, email, code string, issuedAt, expiresAt time.Time) error {
	const q = `
INSERT INTO otps (email, code, created_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE
SET code=$2, created_at=$3, expires_at=$4`
	_, err := r.db.Pool.Exec(ctx, q, email, code, issuedAt, expiresAt)
	return err
}

// Get loads the live code for email.
func (r *PasscodeRepo) Get(ctx context.Context, email string) (string, time.Time, error) {
	const q = `SELECT code, expires_at FROM otps WHERE email=$1`
	row := r.db.Pool.QueryRow(ctx, q, email)
	var code string
	var expiresAt time.Time
	if err := row.Scan(&code, &expiresAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return "", time.Time{}, err
		}
		return "", time.Time{}, errs.ErrNotFound
	}
	return code, expiresAt, nil
}

// Delete removes the live code for email.
func (r *PasscodeRepo) Delete(ctx context.Context, email string) error {
	const q = `DELETE FROM otps WHERE email=$1`
	_, err := r.db.Pool.Exec(ctx, q, email)
	return err
}

// PresenceRepo implements PresenceRepository using PostgreSQL.
type PresenceRepo struct{ db *DB }

// NewPresenceRepo constructs a presence repository.
func NewPresenceRepo(db *DB) *PresenceRepo { return &PresenceRepo{db: db} }

// Set overwrites the heartbeat for username, last writer wins.
func (r *PresenceRepo) Set(ctx context.Context, username string, at time.Time) error {
	const q = `
INSERT INTO presence (username, last_seen)
VALUES ($1, $2)
ON CONFLICT (username) DO UPDATE SET last_seen=$2`
	_, err := r.db.Pool.Exec(ctx, q, username, at)
	return err
}

// Get returns the last heartbeat for username.
func (r *PresenceRepo) Get(ctx context.Context, username string) (time.Time, error) {
	const q = `SELECT last_seen FROM presence WHERE username=$1`
	row := r.db.Pool.QueryRow(ctx, q, username)
	var at time.Time
	if err := row.Scan(&at); err != nil {
		if errors.Is(err, context.Canceled) {
			return time.Time{}, err
		}
		return time.Time{}, errs.ErrNotFound
	}
	return at, nil
}

// AuditRepo implements AuditRepository using PostgreSQL.
type AuditRepo struct{ db *DB }

// NewAuditRepo constructs an audit repository.
func NewAuditRepo(db *DB) *AuditRepo { return &AuditRepo{db: db} }

// Record inserts an audit entry.
func (r *AuditRepo) Record(ctx context.Context, rec *model.AuditRecord) error {
	const q = `
INSERT INTO audit (id, user_id, action, meta, time)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, rec.ID, rec.UserID, rec.Action, rec.Meta, rec.Time)
	return err
}
