// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"innerpath/internal/config"
	"innerpath/internal/model"
	"innerpath/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTAuthMiddleware verifies the Authorization bearer token issued by the
// identity service and puts the authenticated user id into the context.
// Token issuance itself lives outside this service.
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorization header is required.", "", model.ErrForbidden))
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorization header format must be 'Bearer {token}'.", "", model.ErrForbidden))
				return
			}

			token, err := jwt.Parse(headerParts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWT.SecretKey), nil
			})
			if err != nil {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Token is invalid or expired.", "", model.ErrForbidden))
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				logger.Warn("JWT auth failed: Unknown claims type or invalid token")
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Token is invalid.", "", model.ErrForbidden))
				return
			}

			subject, err := claims.GetSubject()
			if err != nil {
				logger.Warn("JWT auth failed: Subject (sub) claim missing", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Token carries no user identity.", "", model.ErrForbidden))
				return
			}
			userID, err := uuid.Parse(subject)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid subject (sub) format", "subject", subject)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Token user identity is malformed.", "", model.ErrForbidden))
				return
			}

			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DevUserContextMiddleware is the test/dev substitute for JWT auth: it
// trusts an X-User-ID header outright. Wired only when auth is disabled.
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Missing X-User-ID header.", "", model.ErrForbidden))
			return
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Invalid X-User-ID format.", "", model.ErrForbidden))
			return
		}

		ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext pulls the authenticated user out of the context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	value, ok := ctx.Value(model.UserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, model.NewAppError("INTERNAL_SERVER_ERROR", "User identity missing from request context.", "", model.ErrInternalServer)
	}
	return value, nil
}
