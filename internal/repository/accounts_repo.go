package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/kolobyte/account-auth/internal/domain"
)

// AccountsRepository handles account persistence.
type AccountsRepository struct {
	db *sql.DB
}

// NewAccountsRepository creates a new accounts repository.
func NewAccountsRepository(db *sql.DB) *AccountsRepository {
	return &AccountsRepository{db: db}
}

const accountColumns = `id, email, username, password_hash, full_name, referral_code, verification, status, created_at, updated_at`

// Create inserts a new account.
func (r *AccountsRepository) Create(ctx context.Context, a *domain.Account) error {
	return r.CreateTx(ctx, r.db, a)
}

// CreateTx inserts a new account within a transaction. Unique-constraint
// violations on email or username surface as conflict errors: the service's
// existence pre-checks are an optimization, the constraint is the backstop.
func (r *AccountsRepository) CreateTx(ctx context.Context, q Querier, a *domain.Account) error {
	query := `
		INSERT INTO accounts (id, email, username, password_hash, full_name, referral_code, verification, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := q.ExecContext(ctx, query,
		a.ID, a.Email, a.Username, a.PasswordHash, a.FullName, a.ReferralCode,
		a.Verification, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	switch {
	case IsUniqueViolation(err, "accounts_email_key"):
		return domain.E(domain.KindConflict, "%s is taken", a.Email)
	case IsUniqueViolation(err, "accounts_username_key"):
		return domain.E(domain.KindConflict, "%s is taken", a.Username)
	case IsUniqueViolation(err, ""):
		return domain.E(domain.KindConflict, "account already exists")
	}
	return err
}

// GetByID retrieves an account by id.
func (r *AccountsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// GetByIDWithVerifications retrieves an account with its verification
// records eager-loaded.
func (r *AccountsRepository) GetByIDWithVerifications(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, account_id, token_hash, purpose, valid_until, created_at
		FROM verifications
		WHERE account_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.Verification
		if err := rows.Scan(&v.ID, &v.AccountID, &v.TokenHash, &v.Purpose, &v.ValidUntil, &v.CreatedAt); err != nil {
			return nil, err
		}
		account.Verifications = append(account.Verifications, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return account, nil
}

// GetByEmail retrieves an account by email.
func (r *AccountsRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

// GetByUsername retrieves an account by username.
func (r *AccountsRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, username))
}

// SetStateTx flips the verification and activation state in one update.
func (r *AccountsRepository) SetStateTx(ctx context.Context, q Querier, id uuid.UUID, verification domain.VerificationState, status domain.AccountStatus) error {
	query := `
		UPDATE accounts
		SET verification = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := q.ExecContext(ctx, query, id, verification, status)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetPasswordHashTx overwrites the stored password hash.
func (r *AccountsRepository) SetPasswordHashTx(ctx context.Context, q Querier, id uuid.UUID, hash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := q.ExecContext(ctx, query, id, hash)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.Email, &a.Username, &a.PasswordHash, &a.FullName,
		&a.ReferralCode, &a.Verification, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
