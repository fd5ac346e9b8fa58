package v1handler

import (
	"context"
	"fmt"
	"net/http"
	"proplookup/internal/config"
	"proplookup/pkg/logger"
	"proplookup/pkg/serrors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CtxKey is a string-based type used for storing values in request contexts.
type CtxKey string

// CallerIDKey is the context key under which the authenticated caller's ID is stored.
const CallerIDKey CtxKey = "CallerID"

// BearerAuth is the credential extracted from the Authorization header.
type BearerAuth struct {
	Token string
}

// SecHandlerOptions configures bearer authentication.
type SecHandlerOptions struct {
	// PublicKey is the PEM-encoded RSA key tokens are verified with. An empty
	// key disables authentication.
	PublicKey string
}

// NewSecHandlerOptions constructs SecHandlerOptions from the application config.
func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{PublicKey: cfg.JWT.PublicKey}
}

// SecHandler authenticates API callers with RS256 signed JWTs whose subject is
// the caller's UUID.
type SecHandler struct {
	handler *Handler
	parser  *jwt.Parser
	keyFunc jwt.Keyfunc
}

func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	sh := &SecHandler{handler: New(Deps{})}
	if opts == nil || opts.PublicKey == "" {
		return sh, nil
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}
	sh.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	sh.keyFunc = func(*jwt.Token) (any, error) { return key, nil }

	return sh, nil
}

// Enabled reports whether requests are authenticated.
func (s *SecHandler) Enabled() bool {
	return s.parser != nil
}

// HandleBearerAuth verifies t and stores the caller ID in the returned context.
// Every token is accepted when authentication is disabled.
func (s *SecHandler) HandleBearerAuth(ctx context.Context, operation string, t BearerAuth) (context.Context, error) {
	if !s.Enabled() {
		return ctx, nil
	}

	var claims jwt.RegisteredClaims
	if _, err := s.parser.ParseWithClaims(t.Token, &claims, s.keyFunc); err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	callerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}

	ctx = context.WithValue(ctx, CallerIDKey, callerID)
	ctx = logger.WithFields(ctx, zap.String(string(CallerIDKey), callerID.String()))
	logger.Debug(ctx, "caller authenticated", zap.String("operation", operation))

	return ctx, nil
}

// Middleware rejects requests without a valid bearer token. It passes every
// request through when authentication is disabled.
func (s *SecHandler) Middleware(next http.Handler) http.Handler {
	if !s.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			s.handler.writeError(ctx, w, serrors.With(serrors.ErrUnauthorized, "missing bearer token"))

			return
		}

		ctx, err := s.HandleBearerAuth(ctx, r.Method+" "+r.URL.Path, BearerAuth{Token: strings.TrimSpace(token)})
		if err != nil {
			s.handler.writeError(ctx, w, err)

			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCallerIDFromContext returns the authenticated caller, if any.
func GetCallerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(CallerIDKey).(uuid.UUID)

	return id, ok
}
