package auth

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/shakehq/milkshake-api/internal/domain/customer"
	"github.com/shakehq/milkshake-api/internal/domain/discount"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

// Service implements registration and login against the customer store.
type Service struct {
	customers customer.Repository
	tiers     discount.Repository
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewService creates an auth Service signing tokens with the given secret.
func NewService(customers customer.Repository, tiers discount.Repository, secret []byte) *Service {
	return &Service{
		customers: customers,
		tiers:     tiers,
		secret:    secret,
		tokenTTL:  DefaultTokenTTL,
		now:       time.Now,
	}
}

// RegisterRequest holds the input for creating an account.
type RegisterRequest struct {
	FullName     string
	Email        string
	MobileNumber string
	Password     string
	Role         string
}

// Register creates a new account with a bcrypt password hash and returns a
// logged-in session.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	taken, err := s.customers.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, errors.Wrap(err, "check email")
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	role := req.Role
	if role != customer.RoleAdmin {
		role = customer.RoleCustomer
	}

	cust := &customer.Customer{
		FullName:     req.FullName,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.customers.Create(ctx, cust); err != nil {
		return nil, errors.Wrap(err, "create customer")
	}

	token, err := signToken(s.secret, cust.ID, cust.Role, s.now(), s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:            token,
		UserID:           cust.ID,
		FullName:         cust.FullName,
		Email:            cust.Email,
		Role:             cust.Role,
		DiscountTier:     0,
		DiscountTierName: discount.NoTierName,
	}, nil
}

// Login verifies credentials, records the login time, and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	cust, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "get customer")
	}

	if bcrypt.CompareHashAndPassword([]byte(cust.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.customers.TouchLastLogin(ctx, cust.ID, now); err != nil {
		return nil, errors.Wrap(err, "record login")
	}

	tierName := discount.NoTierName
	if cust.CurrentDiscountTier > 0 {
		if tier, err := s.tiers.GetByLevel(ctx, cust.CurrentDiscountTier); err == nil && tier.Active {
			tierName = tier.Name
		}
	}

	token, err := signToken(s.secret, cust.ID, cust.Role, now, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:            token,
		UserID:           cust.ID,
		FullName:         cust.FullName,
		Email:            cust.Email,
		Role:             cust.Role,
		DiscountTier:     cust.CurrentDiscountTier,
		DiscountTierName: tierName,
	}, nil
}

// Verify validates a bearer token issued by this service.
func (s *Service) Verify(token string) (*Identity, error) {
	return VerifyToken(s.secret, token)
}
