package session_adapter

import (
	"context"
	"errors"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "auth-service"

// jwtCustomClaims - claims токена, который выдает сервис аутентификации.
type jwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTSessionProvider разбирает bearer-токены и ведет их отзыв при выходе.
type JWTSessionProvider struct {
	signingKey  []byte
	revocations port.TokenRevocationPort
	now         func() time.Time
}

func NewJWTSessionProvider(signingKey string, revocations port.TokenRevocationPort) (*JWTSessionProvider, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("JWT signing key cannot be empty")
	}
	if revocations == nil {
		return nil, fmt.Errorf("token revocation store cannot be nil")
	}
	return &JWTSessionProvider{
		signingKey:  []byte(signingKey),
		revocations: revocations,
		now:         time.Now,
	}, nil
}

// Resolve проверяет токен и превращает его в сессию.
// Любая проблема с токеном дает domain.ErrTokenInvalid.
func (p *JWTSessionProvider) Resolve(ctx context.Context, tokenString string) (domain.Session, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "JWTSessionProvider",
		"method":    "Resolve",
	})

	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.signingKey, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Warn("Token has expired", nil)
		} else {
			logger.Warn("Invalid token format or signature", port.Fields{"error": err.Error()})
		}
		return domain.AnonymousSession(), domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		logger.Error("Token was parsed without error, but claims type assertion failed", nil, nil)
		return domain.AnonymousSession(), domain.ErrTokenInvalid
	}

	if claims.ID != "" {
		revoked, err := p.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			// без хранилища отзыва токен не принимаем
			logger.Error("Failed to check token revocation", err, nil)
			return domain.AnonymousSession(), fmt.Errorf("%w: revocation check failed: %w", domain.ErrTransport, err)
		}
		if revoked {
			logger.Info("Revoked token presented", port.Fields{"jti": claims.ID})
			return domain.AnonymousSession(), domain.ErrTokenInvalid
		}
	}

	session := domain.Session{
		Authenticated: claims.UserID != "",
		TokenID:       claims.ID,
	}
	if claims.UserID != "" {
		session.User = &domain.SessionUser{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Current возвращает сессию, которую положил в контекст middleware.
func (p *JWTSessionProvider) Current(ctx context.Context) domain.Session {
	return contextkeys.SessionFromContext(ctx)
}

// Logout отзывает токен текущей сессии до истечения его срока.
func (p *JWTSessionProvider) Logout(ctx context.Context) error {
	session := p.Current(ctx)
	if !session.Authenticated {
		return domain.ErrNotAuthenticated
	}
	if session.TokenID == "" {
		// токен без jti отозвать нельзя, он доживет до истечения
		contextkeys.LoggerFromContext(ctx).Warn("Token has no jti, nothing to revoke", port.Fields{"user_id": session.UserID()})
		return nil
	}

	ttl := session.ExpiresAt.Sub(p.now())
	if session.ExpiresAt.IsZero() || ttl <= 0 {
		ttl = time.Minute
	}
	if err := p.revocations.Revoke(ctx, session.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	contextkeys.LoggerFromContext(ctx).Info("Token revoked", port.Fields{"user_id": session.UserID(), "jti": session.TokenID})
	return nil
}

// IssueToken подписывает токен для пользователя. Нужен локальной разработке и тестам.
func (p *JWTSessionProvider) IssueToken(user domain.SessionUser, ttl time.Duration) (string, error) {
	now := p.now()
	claims := &jwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
