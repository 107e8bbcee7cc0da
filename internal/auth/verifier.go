package auth

import (
	"context"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"github.com/notexhq/notex-backend/internal/apperr"
)

// minTokenLength rejects obviously bogus bearer values before spending a
// round trip on the identity service. Firebase ID tokens are JWTs and are
// always far longer than this.
const minTokenLength = 100

// Identity is the verified claim set for one request.
type Identity struct {
	UID   string
	Email string
}

// idTokenVerifier is the slice of *fbauth.Client the verifier needs.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

type Verifier struct {
	tokens idTokenVerifier
	logger *zap.Logger
}

func NewVerifier(client *fbauth.Client, logger *zap.Logger) *Verifier {
	return &Verifier{tokens: client, logger: logger}
}

// Verify checks the raw Authorization header value, accepting either a bare
// token or a "Bearer <token>" prefixed one, and returns the decoded identity.
func (v *Verifier) Verify(ctx context.Context, authorization string) (*Identity, error) {
	if authorization == "" {
		v.logger.Warn("token verification failed", zap.String("reason", "missing header"))
		return nil, apperr.New(apperr.Unauthenticated, "No authorization header")
	}

	token := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
	if len(token) < minTokenLength {
		v.logger.Warn("token verification failed", zap.String("reason", "malformed token"))
		return nil, apperr.New(apperr.MalformedCredential, "Invalid token format")
	}

	decoded, err := v.tokens.VerifyIDToken(ctx, token)
	if err != nil {
		if fbauth.IsIDTokenInvalid(err) || fbauth.IsIDTokenExpired(err) {
			v.logger.Warn("token verification failed", zap.String("reason", "invalid token"), zap.Error(err))
			return nil, apperr.Wrap(apperr.InvalidCredential, "Invalid token", err)
		}
		v.logger.Warn("token verification failed", zap.String("reason", "verifier error"), zap.Error(err))
		return nil, apperr.Wrap(apperr.Unauthenticated, "Token verification failed", err)
	}

	identity := &Identity{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		identity.Email = email
	}

	v.logger.Info("token verified", zap.String("uid", identity.UID))
	return identity, nil
}
