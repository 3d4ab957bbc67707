package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"chat-server/internal/config"
	"chat-server/internal/domain/identity"
)

// identityKey is the gin context key the resolved identity is stored under.
const identityKey = "auth_identity"

// Validator validates JWTs using JWKS and resolves the caller's identity.
type Validator struct {
	cfg  *config.Config
	log  zerolog.Logger
	jwks *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	if !cfg.AuthEnabled {
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:  cfg,
		log:  log,
		jwks: jwks,
	}, nil
}

// Middleware resolves the caller's identity and rejects unauthenticated
// requests. With auth disabled, identity comes from the X-User-ID and
// X-Superuser headers instead of a token; that mode is for local
// development only.
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.cfg.AuthEnabled {
		return func(c *gin.Context) {
			ident, ok := headerIdentity(c)
			if !ok {
				abortUnauthorized(c, "missing X-User-ID header")
				return
			}
			setIdentity(c, ident)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		token, err := jwt.Parse(tokenString, v.jwks.Keyfunc,
			jwt.WithIssuer(v.cfg.AuthIssuer),
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		)
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid token claims")
			return
		}

		if audience := strings.TrimSpace(v.cfg.AuthAudience); audience != "" {
			if !audienceMatches(claims["aud"], audience) {
				abortUnauthorized(c, "invalid token audience")
				return
			}
		}

		ident, err := claimsIdentity(claims)
		if err != nil {
			abortUnauthorized(c, "invalid subject claim")
			return
		}

		setIdentity(c, ident)
		c.Next()
	}
}

// Ready indicates if the validator is prepared.
func (v *Validator) Ready() bool {
	if v == nil || !v.cfg.AuthEnabled {
		return true
	}
	return v.jwks != nil
}

// IdentityFromContext returns the identity the middleware resolved for
// this request.
func IdentityFromContext(c *gin.Context) (identity.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return identity.Identity{}, false
	}
	ident, ok := value.(identity.Identity)
	return ident, ok
}

func setIdentity(c *gin.Context, ident identity.Identity) {
	c.Set(identityKey, ident)
	c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), ident))
}

func headerIdentity(c *gin.Context) (identity.Identity, bool) {
	raw := strings.TrimSpace(c.GetHeader("X-User-ID"))
	if raw == "" {
		return identity.Identity{}, false
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || userID == 0 {
		return identity.Identity{}, false
	}
	superuser, _ := strconv.ParseBool(c.GetHeader("X-Superuser"))
	return identity.Identity{
		UserID:    uint(userID),
		Superuser: superuser,
	}, true
}

func claimsIdentity(claims jwt.MapClaims) (identity.Identity, error) {
	sub, err := claims.GetSubject()
	if err != nil {
		return identity.Identity{}, err
	}
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return identity.Identity{}, err
	}

	email, _ := claims["email"].(string)
	superuser, _ := claims["is_superuser"].(bool)

	return identity.Identity{
		UserID:    uint(userID),
		Email:     email,
		Superuser: superuser,
	}, nil
}

func audienceMatches(audClaim any, audience string) bool {
	switch aud := audClaim.(type) {
	case nil:
		return true
	case string:
		return aud == audience
	case []any:
		for _, entry := range aud {
			if s, ok := entry.(string); ok && s == audience {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
