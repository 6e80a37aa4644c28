package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/HaBsawy/creiden-task/internal/apperr"
	"github.com/HaBsawy/creiden-task/internal/http/response"
	"github.com/HaBsawy/creiden-task/internal/models"
	"github.com/HaBsawy/creiden-task/internal/security"
)

// Access is what a route requires from the caller.
type Access string

const (
	Public Access = "public"
	Admin  Access = Access(models.RealmAdmin)
	User   Access = Access(models.RealmUser)
)

// Policy maps route names to their access rule. A matched route without an
// entry is denied.
type Policy map[string]Access

// TokenValidator resolves a bearer token issued for realm.
// *security.TokenIssuer implements it.
type TokenValidator interface {
	Validate(ctx context.Context, plaintext string, realm models.Realm) (models.Principal, error)
}

// Gate enforces policy on routes matched by the mux router it is installed
// on. Callers that fail are answered with the 401 envelope and the handler
// never runs. On success the principal is stored in the request context.
// The route name is added to the request logger so the access log carries it.
func Gate(policy Policy, tokens TokenValidator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context())

			var name string
			if route := mux.CurrentRoute(r); route != nil {
				name = route.GetName()
			}
			logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("route", name)
			})
			access, ok := policy[name]
			if !ok {
				logger.Warn().Msg("route has no access policy")
				response.NotAuthenticated(w)
				return
			}
			if access == Public {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				response.NotAuthenticated(w)
				return
			}
			principal, err := tokens.Validate(r.Context(), token, models.Realm(access))
			if err != nil {
				if apperr.KindOf(err) != apperr.KindUnauthenticated {
					response.Error(w, r, err)
					return
				}
				logger.Debug().Err(err).Msg("token rejected")
				response.NotAuthenticated(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(security.WithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
