package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/librarium/internal/common"
	"github.com/dmitrijs2005/librarium/internal/server/auth"
	"github.com/dmitrijs2005/librarium/internal/server/graph"
	"github.com/dmitrijs2005/librarium/internal/server/models"
)

// writeAuthError writes a GraphQL-shaped error body so clients handle
// transport-level auth failures the same way as resolver errors.
func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]interface{}{
			{
				"message":    msg,
				"extensions": map[string]interface{}{"code": graph.CodeAuthenticationError},
			},
		},
	})
}

// authMiddleware resolves the current user once per request.
//
// No Authorization header means an anonymous request, which is allowed:
// queries and the createUser/login mutations do not require an identity.
// A header that is present but unusable fails fast before execution.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.userFromAuthHeader(r.Context(), header)
		if err != nil {
			s.metrics.RecordAuthFailure()
			s.logger.Warn(r.Context(), "rejected request token", "error", err)
			writeAuthError(w, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithCurrentUser(r.Context(), user)))
	})
}

func (s *Server) userFromAuthHeader(ctx context.Context, header string) (*models.User, error) {
	if !strings.HasPrefix(header, common.BearerSchema) {
		return nil, common.ErrInvalidToken
	}
	token := strings.TrimPrefix(header, common.BearerSchema)

	userID, err := auth.GetUserIDFromToken(token, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	user, err := s.repos.Users().GetByID(ctx, userID)
	if err != nil {
		// a token for a deleted account is as good as invalid
		return nil, common.ErrInvalidToken
	}
	return user, nil
}
