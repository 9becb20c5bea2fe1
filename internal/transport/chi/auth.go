package chi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/identity"
)

type identityKey struct{}

const bearerPrefix = "Bearer "

// identityFromContext returns the identity placed by authenticate.
func identityFromContext(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(identity.Identity)
	return id, ok
}

// authenticate validates the Bearer token, resolves the caller once and
// stores the identity in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			s.handleDomainError(w, r, fmt.Errorf("%w: missing authorization header", domain.ErrUnauthorized))
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			s.handleDomainError(w, r,
				fmt.Errorf("%w: authorization header must use Bearer scheme", domain.ErrUnauthorized))
			return
		}

		claims, err := s.tokens.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}

		id, err := s.identities.Resolve(r.Context(), claims.Subject)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}

		ctx := enrichEvent(r.Context(), zap.Int64("identity_id", id.ID), zap.String("tier", string(id.Tier)))
		ctx = context.WithValue(ctx, identityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
