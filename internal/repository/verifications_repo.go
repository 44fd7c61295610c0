package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/kolobyte/account-auth/internal/domain"
)

// VerificationsRepository handles verification record persistence.
type VerificationsRepository struct {
	db *sql.DB
}

// NewVerificationsRepository creates a new verifications repository.
func NewVerificationsRepository(db *sql.DB) *VerificationsRepository {
	return &VerificationsRepository{db: db}
}

// Create inserts a new verification record.
func (r *VerificationsRepository) Create(ctx context.Context, v *domain.Verification) error {
	return r.CreateTx(ctx, r.db, v)
}

// CreateTx inserts a new verification record within a transaction.
func (r *VerificationsRepository) CreateTx(ctx context.Context, q Querier, v *domain.Verification) error {
	query := `
		INSERT INTO verifications (id, account_id, token_hash, purpose, valid_until, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.ExecContext(ctx, query,
		v.ID, v.AccountID, v.TokenHash, v.Purpose, v.ValidUntil, v.CreatedAt,
	)
	return err
}

// DeleteAllTx deletes every record for (account, purpose) and returns the
// number removed. Callers pair it with CreateTx in one transaction so a
// reissue never leaves zero or duplicate live records.
func (r *VerificationsRepository) DeleteAllTx(ctx context.Context, q Querier, accountID uuid.UUID, purpose domain.VerificationPurpose) (int64, error) {
	query := `DELETE FROM verifications WHERE account_id = $1 AND purpose = $2`
	result, err := q.ExecContext(ctx, query, accountID, purpose)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetByTokenHash returns the first record matching (tokenHash, purpose).
func (r *VerificationsRepository) GetByTokenHash(ctx context.Context, tokenHash string, purpose domain.VerificationPurpose) (*domain.Verification, error) {
	query := `
		SELECT id, account_id, token_hash, purpose, valid_until, created_at
		FROM verifications
		WHERE token_hash = $1 AND purpose = $2
	`
	v := &domain.Verification{}
	err := r.db.QueryRowContext(ctx, query, tokenHash, purpose).Scan(
		&v.ID, &v.AccountID, &v.TokenHash, &v.Purpose, &v.ValidUntil, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVerificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteTx removes a consumed record within a transaction.
func (r *VerificationsRepository) DeleteTx(ctx context.Context, q Querier, id uuid.UUID) error {
	query := `DELETE FROM verifications WHERE id = $1`
	result, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrVerificationNotFound
	}
	return nil
}
