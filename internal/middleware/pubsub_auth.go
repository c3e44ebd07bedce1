package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/idtoken"
)

// PushAuthConfig describes which OIDC tokens a push endpoint accepts.
type PushAuthConfig struct {
	// SkipVerification is set when talking to the emulator, which sends no token.
	SkipVerification    bool
	Audience            string
	ServiceAccountEmail string
}

type tokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// PubSubAuthMiddleware only lets through push requests signed by Google for the
// configured service account.
func PubSubAuthMiddleware(cfg PushAuthConfig, logger zerolog.Logger) func(http.Handler) http.Handler {
	return pushAuth(cfg, idtoken.Validate, logger)
}

func pushAuth(cfg PushAuthConfig, validate tokenValidator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.SkipVerification {
			logger.Warn().Msg("Pub/Sub push authentication disabled")
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Audience == "" || cfg.ServiceAccountEmail == "" {
				logger.Error().Msg("Push auth has no audience or service account; denying request")
				http.Error(w, "Push authentication is not configured", http.StatusInternalServerError)
				return
			}

			scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				logger.Warn().Msg("Push request without bearer token")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			payload, err := validate(r.Context(), token, cfg.Audience)
			if err != nil {
				logger.Warn().Err(err).Msg("Push token rejected")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			email, _ := payload.Claims["email"].(string)
			verified, _ := payload.Claims["email_verified"].(bool)
			if email != cfg.ServiceAccountEmail || !verified {
				logger.Warn().Str("token_email", email).Bool("email_verified", verified).Msg("Push token from unexpected principal")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
