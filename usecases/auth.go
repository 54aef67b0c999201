package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultTokenTTL = 24 * time.Hour

// AuthUseCase issues and verifies bearer tokens for password sign-in.
type AuthUseCase struct {
	base
	secret []byte
	ttl    time.Duration
}

func newAuthUseCase(b base, secret string, ttl time.Duration) *AuthUseCase {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthUseCase{base: b, secret: []byte(secret), ttl: ttl}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// Login checks the password and returns a signed token. Unknown emails and
// wrong passwords fail the same way.
func (uc *AuthUseCase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if len(uc.secret) == 0 {
		return nil, errs.NewConfigMissingError("JWT_SECRET")
	}
	email, err := required("email", in.Email)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, errs.NewMissingRequiredFieldError("password")
	}

	user, err := uc.db.UserRepo().FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewBadCredentialsError()
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.logger.Info().Str("userID", user.ID.String()).Msg("Rejected sign-in attempt")
		return nil, errs.NewBadCredentialsError()
	}

	now := uc.now()
	expiresAt := now.Add(uc.ttl)
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}
	if user.CurrentAccountID != nil {
		claims["account"] = user.CurrentAccountID.String()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("sign token", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}

// ParseToken verifies an HS256 token and returns the user it was issued to.
func (uc *AuthUseCase) ParseToken(tokenString string) (uuid.UUID, error) {
	if len(uc.secret) == 0 {
		return uuid.Nil, errs.NewConfigMissingError("JWT_SECRET")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return uc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(uc.now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, errs.NewInvalidTokenError()
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, errs.NewInvalidTokenError()
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, errs.NewInvalidTokenError()
	}
	return userID, nil
}

// AccountContextUseCase resolves which account a signed-in user is acting for.
type AccountContextUseCase struct {
	base
}

// Resolve returns the user's current account. A user without one is moved to
// their oldest membership, which is then remembered; a user with no
// membership at all is refused.
func (uc *AccountContextUseCase) Resolve(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	user, err := uc.db.UserRepo().FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewInvalidTokenError()
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}

	if user.CurrentAccountID != nil {
		_, err := uc.db.MembershipRepo().FindByUser(ctx, *user.CurrentAccountID, user.ID)
		if err == nil {
			return uc.account(ctx, *user.CurrentAccountID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewDatabaseError("find", "membership", err)
		}
	}

	var account *models.Account
	err = uc.db.Transaction(ctx, func(tx database.Database) error {
		membership, err := tx.MembershipRepo().FirstForUser(ctx, user.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNoAccountError()
		}
		if err != nil {
			return errs.NewDatabaseError("find", "membership", err)
		}
		if err := tx.UserRepo().SetCurrentAccount(ctx, user.ID, membership.AccountID); err != nil {
			return errs.NewDatabaseError("update", "user", err)
		}
		account, err = tx.AccountRepo().FindByID(ctx, membership.AccountID)
		if err != nil {
			return errs.NewDatabaseError("find", "account", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (uc *AccountContextUseCase) account(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	account, err := uc.db.AccountRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "account", err)
	}
	return account, nil
}

// HasAccess is the subscription gate for the account at the current time.
func (uc *AccountContextUseCase) HasAccess(account models.Account) bool {
	return account.HasAccess(uc.now())
}
