package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/dandi-labs/dandi/internal/auth/domain"
	apperrors "github.com/dandi-labs/dandi/internal/errors"
)

// sessionService implements SessionService with golang-jwt.
type sessionService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Issue signs a token whose subject is ownerID.
func (s *sessionService) Issue(ownerID uuid.UUID, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", authDomain.ErrInvalidSessionTTL
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID.String(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign session token")
	}
	return token, nil
}

// Verify checks signature, algorithm, expiry and issuer, then parses the subject.
func (s *sessionService) Verify(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, authDomain.ErrInvalidSession
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return uuid.Nil, authDomain.ErrInvalidSession
	}

	ownerID, err := uuid.Parse(claims.Subject)
	if err != nil || ownerID == uuid.Nil {
		return uuid.Nil, authDomain.ErrInvalidSession
	}
	return ownerID, nil
}

// NewSessionService creates a SessionService signing with secret. When issuer is
// non-empty it is stamped on issued tokens and required on verified ones.
func NewSessionService(secret, issuer string) (SessionService, error) {
	if secret == "" {
		return nil, authDomain.ErrSessionSecretNotSet
	}
	return &sessionService{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}
