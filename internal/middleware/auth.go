package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	auth "github.com/supabase-community/auth-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/config"
	"github.com/saas-factory/api/internal/infra/cache"
	"github.com/saas-factory/api/internal/modules/serializer"
)

// IdentityKey is the gin context key of the caller's *Identity.
const IdentityKey = "identity"

var ErrInvalidToken = errors.New("invalid access token")

type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	// Demo marks requests served by the in-memory backend.
	Demo bool `json:"demo"`
}

// IdentityFrom returns the caller set by UserAuth, or nil for anonymous requests.
func IdentityFrom(c *gin.Context) *Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}

// TokenVerifier resolves a bearer token to a user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// SupabaseVerifier checks HS256 tokens locally when the JWT secret is known and asks
// the auth API otherwise. API answers are cached in redis.
type SupabaseVerifier struct {
	client    auth.Client
	jwtSecret []byte
	rdb       redis.Cmdable
	ttl       time.Duration
	log       *zap.Logger
}

// NewSupabaseVerifier returns nil when auth is not configured. rdb may be nil.
func NewSupabaseVerifier(cfg *config.Config, rdb redis.Cmdable, log *zap.Logger) *SupabaseVerifier {
	if !cfg.AuthEnabled() {
		return nil
	}
	client := auth.New(cfg.Supabase.ProjectRef, cfg.Supabase.AnonKey)
	if cfg.Supabase.AuthURL != "" {
		client = client.WithCustomAuthURL(cfg.Supabase.AuthURL)
	}
	v := &SupabaseVerifier{
		client: client,
		rdb:    rdb,
		ttl:    time.Duration(cfg.Supabase.UserCacheSec) * time.Second,
		log:    log,
	}
	if cfg.Supabase.JWTSecret != "" {
		v.jwtSecret = []byte(cfg.Supabase.JWTSecret)
	}
	return v
}

type supabaseClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if len(v.jwtSecret) > 0 {
		return verifyHS256(token, v.jwtSecret)
	}

	key := "auth:user:" + tokenDigest(token)
	if v.rdb != nil && v.ttl > 0 {
		var cached Identity
		hit, err := cache.GetJSON(ctx, v.rdb, key, &cached)
		if err != nil {
			v.log.Warn("auth cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	user, err := v.client.WithToken(token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id := &Identity{UserID: user.ID, Email: strings.ToLower(user.Email)}

	if v.rdb != nil && v.ttl > 0 {
		if err := cache.SetJSON(ctx, v.rdb, key, id, v.ttl); err != nil {
			v.log.Warn("auth cache write failed", zap.Error(err))
		}
	}
	return id, nil
}

func verifyHS256(token string, secret []byte) (*Identity, error) {
	claims := &supabaseClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	return &Identity{UserID: uid, Email: strings.ToLower(claims.Email)}, nil
}

// tokenDigest keeps raw tokens out of redis keys.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type AuthOptions struct {
	// Verifier may be nil when auth is not configured.
	Verifier TokenVerifier
	// DemoEnabled serves requests without a token from the demo backend.
	DemoEnabled bool
	// Optional lets anonymous requests through without an identity.
	Optional bool
}

// UserAuth authenticates the caller and routes demo sessions to the demo backend.
func UserAuth(opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := otel.Tracer("middleware").Start(c.Request.Context(), "user_auth",
			trace.WithAttributes(attribute.String("middleware", "user_auth")))

		raw, hasToken := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		hasToken = hasToken && raw != ""

		var id *Identity
		switch {
		case hasToken && opts.Verifier != nil:
			verified, err := opts.Verifier.Verify(ctx, raw)
			if err != nil {
				span.SetAttributes(attribute.Bool("authenticated", false))
				span.End()
				if errors.Is(err, ErrInvalidToken) {
					c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("invalid or expired access token"))
					return
				}
				c.AbortWithStatusJSON(http.StatusBadGateway, serializer.Err(http.StatusBadGateway, "authentication service unavailable", err))
				return
			}
			id = verified
		case opts.DemoEnabled:
			id = &Identity{UserID: backend.DemoUserID, Email: backend.DemoUserEmail, Demo: true}
		case opts.Optional:
		default:
			span.SetAttributes(attribute.Bool("authenticated", false))
			span.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("authentication required"))
			return
		}

		if id != nil {
			span.SetAttributes(
				attribute.String("user_id", id.UserID.String()),
				attribute.Bool("demo", id.Demo),
				attribute.Bool("authenticated", true),
			)
			rootSpan := trace.SpanFromContext(c.Request.Context())
			if rootSpan.SpanContext().IsValid() {
				rootSpan.SetAttributes(attribute.String("user_id", id.UserID.String()))
			}
			c.Set(IdentityKey, id)
			if id.Demo {
				c.Request = c.Request.WithContext(backend.WithDemo(c.Request.Context(), c.ClientIP()))
			}
		}
		span.End()
		c.Next()
	}
}
