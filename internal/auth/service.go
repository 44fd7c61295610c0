package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kolobyte/account-auth/internal/domain"
	"github.com/kolobyte/account-auth/internal/repository"
)

// AccountStore is the persistence contract for account records.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByIDWithVerifications(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	CreateTx(ctx context.Context, q repository.Querier, a *domain.Account) error
	SetStateTx(ctx context.Context, q repository.Querier, id uuid.UUID, verification domain.VerificationState, status domain.AccountStatus) error
	SetPasswordHashTx(ctx context.Context, q repository.Querier, id uuid.UUID, hash string) error
}

// VerificationStore is the persistence contract for verification records.
type VerificationStore interface {
	CreateTx(ctx context.Context, q repository.Querier, v *domain.Verification) error
	DeleteAllTx(ctx context.Context, q repository.Querier, accountID uuid.UUID, purpose domain.VerificationPurpose) (int64, error)
	GetByTokenHash(ctx context.Context, tokenHash string, purpose domain.VerificationPurpose) (*domain.Verification, error)
	DeleteTx(ctx context.Context, q repository.Querier, id uuid.UUID) error
}

// CodeSender delivers raw one-time codes to an address. Delivery is
// fire-and-forget: the service logs failures and does not retry.
type CodeSender interface {
	SendVerificationCode(name, addr, code string) error
	SendPasswordResetCode(name, addr, code string) error
}

// Default verification record lifetimes
const (
	DefaultRegistrationCodeTTL = 6 * time.Hour
	DefaultReissueCodeTTL      = 24 * time.Hour
)

// ServiceConfig holds verification record lifetimes.
type ServiceConfig struct {
	// RegistrationCodeTTL bounds the email-verification record created at
	// registration.
	RegistrationCodeTTL time.Duration
	// ReissueCodeTTL bounds records created by resend and reset-request
	// flows.
	ReissueCodeTTL time.Duration
}

// Service orchestrates registration, login, code issuance and consumption,
// and token refresh. It holds no long-lived state of its own; it is an
// orchestration layer over the stores.
type Service struct {
	config        ServiceConfig
	logger        *slog.Logger
	accounts      AccountStore
	verifications VerificationStore
	tokens        *TokenService
	sender        CodeSender
	tx            repository.TxRunner
}

// NewService creates the auth service.
func NewService(
	cfg ServiceConfig,
	logger *slog.Logger,
	accounts AccountStore,
	verifications VerificationStore,
	tokens *TokenService,
	sender CodeSender,
	tx repository.TxRunner,
) *Service {
	if cfg.RegistrationCodeTTL == 0 {
		cfg.RegistrationCodeTTL = DefaultRegistrationCodeTTL
	}
	if cfg.ReissueCodeTTL == 0 {
		cfg.ReissueCodeTTL = DefaultReissueCodeTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		config:        cfg,
		logger:        logger,
		accounts:      accounts,
		verifications: verifications,
		tokens:        tokens,
		sender:        sender,
		tx:            tx,
	}
}

// RegisterInput holds the fields required to create an account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
}

// Register creates an account together with its first email-verification
// record, in one transaction, and emails the raw code. The existence
// pre-checks on email and username are an optimization only: the store's
// unique constraints are the authoritative rejection when two registrations
// race.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	if _, err := s.accounts.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.E(domain.KindConflict, "%s is taken", in.Email)
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}
	if _, err := s.accounts.GetByUsername(ctx, in.Username); err == nil {
		return nil, domain.E(domain.KindConflict, "%s is taken", in.Username)
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	referral, err := GenerateReferralCode(ReferralCodeLength)
	if err != nil {
		return nil, domain.E(domain.KindInternal, "could not generate referral code")
	}
	otp, err := GenerateOTP(OTPLength)
	if err != nil {
		return nil, domain.E(domain.KindInternal, "could not generate verification code")
	}
	passwordHash, err := HashPassword(in.Password)
	if err != nil {
		return nil, domain.E(domain.KindInternal, "could not hash password")
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.New(),
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: passwordHash,
		FullName:     in.FullName,
		ReferralCode: referral,
		Verification: domain.VerificationUnverified,
		Status:       domain.AccountActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	record := &domain.Verification{
		ID:         uuid.New(),
		AccountID:  account.ID,
		TokenHash:  HashCode(otp),
		Purpose:    domain.PurposeEmailVerification,
		ValidUntil: now.Add(s.config.RegistrationCodeTTL),
		CreatedAt:  now,
	}

	err = s.tx.InTx(ctx, func(q repository.Querier) error {
		if err := s.accounts.CreateTx(ctx, q, account); err != nil {
			return err
		}
		return s.verifications.CreateTx(ctx, q, record)
	})
	if err != nil {
		return nil, err
	}

	if err := s.sender.SendVerificationCode(account.FullName, account.Email, otp); err != nil {
		s.logger.Error("failed to send verification code", "error", err, "account_id", account.ID)
	}

	return account, nil
}

// Login checks the password and both account state gates and issues a token
// pair. Only a verified, active account gets tokens.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Account, *domain.TokenPair, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !VerifyPassword(password, account.PasswordHash) {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if account.Verification != domain.VerificationVerified {
		return nil, nil, domain.E(domain.KindForbidden, "email address is not verified")
	}
	if account.Status != domain.AccountActive {
		return nil, nil, domain.E(domain.KindForbidden, "your account has been deactivated, please contact support")
	}

	pair, err := s.tokens.GeneratePair(account.ID, account.FullName)
	if err != nil {
		return nil, nil, err
	}
	return account, pair, nil
}

// RefreshAccessToken verifies a refresh token and issues a fresh access
// token. The refresh token is not rotated in this flow.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return "", domain.ErrRefreshExpired
	}
	accountID, err := claims.AccountID()
	if err != nil {
		return "", err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", domain.E(domain.KindNotFound, "account with id %s does not exist", accountID)
		}
		return "", err
	}

	pair, err := s.tokens.GeneratePair(account.ID, account.FullName)
	if err != nil {
		return "", err
	}
	return pair.AccessToken, nil
}

// ReissueVerification replaces any existing records for (account, purpose)
// with one fresh record and, for email verification, emails the raw code.
// Resending for an already-verified email is rejected.
func (s *Service) ReissueVerification(ctx context.Context, email string, purpose domain.VerificationPurpose) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.E(domain.KindNotFound, "account does not exist")
		}
		return err
	}
	if purpose == domain.PurposeEmailVerification && account.Verification == domain.VerificationVerified {
		return domain.E(domain.KindConflict, "email has already been verified")
	}

	otp, err := s.reissue(ctx, account.ID, purpose)
	if err != nil {
		return err
	}

	if purpose == domain.PurposeEmailVerification {
		if err := s.sender.SendVerificationCode(account.FullName, account.Email, otp); err != nil {
			s.logger.Error("failed to send verification code", "error", err, "account_id", account.ID)
		}
	}
	return nil
}

// RequestPasswordReset issues a password-reset code and emails it. The
// record replaces any previous reset record for the account.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.E(domain.KindNotFound, "account does not exist")
		}
		return err
	}

	otp, err := s.reissue(ctx, account.ID, domain.PurposePasswordReset)
	if err != nil {
		return err
	}

	if err := s.sender.SendPasswordResetCode(account.FullName, account.Email, otp); err != nil {
		s.logger.Error("failed to send password reset code", "error", err, "account_id", account.ID)
	}
	return nil
}

// reissue deletes all records for (account, purpose) and creates one new
// record inside a single transaction, so a concurrent reader sees either the
// old record or the new one, never zero and never two. Returns the raw code.
func (s *Service) reissue(ctx context.Context, accountID uuid.UUID, purpose domain.VerificationPurpose) (string, error) {
	otp, err := GenerateOTP(OTPLength)
	if err != nil {
		return "", domain.E(domain.KindInternal, "could not generate verification code")
	}

	now := time.Now().UTC()
	record := &domain.Verification{
		ID:         uuid.New(),
		AccountID:  accountID,
		TokenHash:  HashCode(otp),
		Purpose:    purpose,
		ValidUntil: now.Add(s.config.ReissueCodeTTL),
		CreatedAt:  now,
	}

	err = s.tx.InTx(ctx, func(q repository.Querier) error {
		if _, err := s.verifications.DeleteAllTx(ctx, q, accountID, purpose); err != nil {
			return err
		}
		return s.verifications.CreateTx(ctx, q, record)
	})
	if err != nil {
		return "", err
	}
	return otp, nil
}

// VerifyEmail consumes an email-verification code: the account flips to
// verified and active, and the consumed record is deleted, in one
// transaction, so a replayed code can never match again.
func (s *Service) VerifyEmail(ctx context.Context, code string) (*domain.Account, error) {
	record, account, err := s.lookupVerification(ctx, code, domain.PurposeEmailVerification)
	if err != nil {
		return nil, err
	}
	if account.Verification == domain.VerificationVerified {
		return nil, domain.E(domain.KindConflict, "email has already been verified")
	}

	err = s.tx.InTx(ctx, func(q repository.Querier) error {
		if err := s.accounts.SetStateTx(ctx, q, account.ID, domain.VerificationVerified, domain.AccountActive); err != nil {
			return err
		}
		return s.verifications.DeleteTx(ctx, q, record.ID)
	})
	if err != nil {
		return nil, err
	}

	account.Verification = domain.VerificationVerified
	account.Status = domain.AccountActive
	return account, nil
}

// ResetPassword consumes a password-reset code and overwrites the account's
// password hash. The consumed record is deleted in the same transaction.
func (s *Service) ResetPassword(ctx context.Context, code, newPassword string) error {
	record, account, err := s.lookupVerification(ctx, code, domain.PurposePasswordReset)
	if err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return domain.E(domain.KindInternal, "could not hash password")
	}

	return s.tx.InTx(ctx, func(q repository.Querier) error {
		if err := s.accounts.SetPasswordHashTx(ctx, q, account.ID, hash); err != nil {
			return err
		}
		return s.verifications.DeleteTx(ctx, q, record.ID)
	})
}

// GetAccount returns an account, optionally with its verification records
// eager-loaded.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID, includeVerifications bool) (*domain.Account, error) {
	if includeVerifications {
		return s.accounts.GetByIDWithVerifications(ctx, id)
	}
	return s.accounts.GetByID(ctx, id)
}

// lookupVerification finds a live record for (code, purpose) together with
// its owning account. Expiry is checked against the current UTC instant.
// Deleting the record is left to the caller's transaction.
func (s *Service) lookupVerification(ctx context.Context, code string, purpose domain.VerificationPurpose) (*domain.Verification, *domain.Account, error) {
	record, err := s.verifications.GetByTokenHash(ctx, HashCode(code), purpose)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationNotFound) {
			return nil, nil, domain.ErrVerificationNotFound
		}
		return nil, nil, err
	}
	if record.Expired(time.Now().UTC()) {
		return nil, nil, domain.ErrTokenExpired
	}

	account, err := s.accounts.GetByID(ctx, record.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, nil, domain.E(domain.KindNotFound, "account does not exist")
		}
		return nil, nil, err
	}
	return record, account, nil
}
