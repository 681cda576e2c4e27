package http

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/autlan/recolecta/internal/core/domain"
)

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserID      string
	Email       string
	DisplayName string
}

// Claims are the identity-provider token claims we read.
type Claims struct {
	jwt.RegisteredClaims
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
}

type userMetadata struct {
	DisplayName string `json:"display_name"`
	FullName    string `json:"full_name"`
}

// Authenticator verifies HS256 access tokens issued by the identity provider.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

// NewAuthenticator returns nil when no secret is configured, which disables
// every authenticated endpoint.
func NewAuthenticator(secret, issuer string) *Authenticator {
	if secret == "" {
		return nil
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Authenticator{secret: []byte(secret), parser: jwt.NewParser(opts...)}
}

// Verify parses and validates a raw token.
func (a *Authenticator) Verify(raw string) (Principal, error) {
	var claims Claims
	_, err := a.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return Principal{}, err
	}
	if claims.Subject == "" {
		return Principal{}, errors.New("token has no subject")
	}

	name := claims.UserMetadata.DisplayName
	if name == "" {
		name = claims.UserMetadata.FullName
	}
	return Principal{
		UserID:      claims.Subject,
		Email:       strings.ToLower(claims.Email),
		DisplayName: name,
	}, nil
}

type principalKey struct{}

// PrincipalFromCtx returns the caller stored by RequireAuth.
func PrincipalFromCtx(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Auth == nil {
			return errUnauthorized(c, "authentication is not configured")
		}
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return errUnauthorized(c, "missing bearer token")
		}
		p, err := deps.Auth.Verify(strings.TrimSpace(authz[len("Bearer "):]))
		if err != nil {
			LoggerFromCtx(c.UserContext()).Debug("token rejected", "error", err)
			return errUnauthorized(c, "invalid token")
		}

		c.Locals("principal", p)
		c.SetUserContext(context.WithValue(c.UserContext(), principalKey{}, p))
		return c.Next()
	}
}

// RequireAdmin allows only callers holding the admin role. It must run after
// RequireAuth.
func RequireAdmin(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFromCtx(c.UserContext())
		if !ok {
			return errUnauthorized(c, "authentication required")
		}
		admin, err := deps.Roles.IsAdmin(c.UserContext(), p.UserID)
		if err != nil {
			return writeError(c, err)
		}
		if !admin {
			return writeError(c, domain.ErrForbidden)
		}
		return c.Next()
	}
}

// MeHandler mirrors the caller into profiles and reports their roles.
func MeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		p, _ := PrincipalFromCtx(ctx)

		profile := &domain.Profile{ID: p.UserID, Email: p.Email, DisplayName: p.DisplayName}
		if err := deps.Roles.RegisterProfile(ctx, profile); err != nil {
			return writeError(c, err)
		}

		var roles []domain.Role
		for _, r := range []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleUser} {
			ok, err := deps.Roles.HasRole(ctx, p.UserID, r)
			if err != nil {
				return writeError(c, err)
			}
			if ok {
				roles = append(roles, r)
			}
		}
		if roles == nil {
			roles = []domain.Role{}
		}

		return c.JSON(fiber.Map{
			"profile":  profile,
			"roles":    roles,
			"is_admin": slices.Contains(roles, domain.RoleAdmin),
		})
	}
}

