package middleware

import (
	"errors"
	"net/http"
	"time"

	"repairdesk/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const tokenContextKey = "user"

// EmployeeClaims are the claims issued to shop employees. The subject is the
// employee id recorded on ledger entries, approvals and claims.
type EmployeeClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTConfig selects the verification key source. A JWKS URL takes
// precedence over the shared secret.
type JWTConfig struct {
	Secret  string
	JWKSURL string
	Logger  *zap.Logger
}

// NewJWTMiddleware builds the authentication middleware for the /v1 group.
// The returned stop func ends the background JWKS refresh, if any.
func NewJWTMiddleware(cfg JWTConfig) (echo.MiddlewareFunc, func(), error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	config := echojwt.Config{
		ContextKey: tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(EmployeeClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logger.Debug("jwt rejected", zap.String("path", c.Path()), zap.Error(err))
			return common.SendUnauthorizedError(c)
		},
	}

	stop := func() {}
	switch {
	case cfg.JWKSURL != "":
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn("jwks refresh failed", zap.String("url", cfg.JWKSURL), zap.Error(err))
			},
		})
		if err != nil {
			return nil, nil, err
		}
		config.KeyFunc = jwks.Keyfunc
		stop = jwks.EndBackground
	case cfg.Secret != "":
		config.SigningKey = []byte(cfg.Secret)
	default:
		return nil, nil, errors.New("either a JWT secret or a JWKS URL is required")
	}

	authenticate := echojwt.WithConfig(config)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authenticate(attachIdentity(next))
	}, stop, nil
}

// attachIdentity copies the verified employee into the request context.
func attachIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return common.SendUnauthorizedError(c)
		}
		claims, ok := token.Claims.(*EmployeeClaims)
		if !ok || claims.Subject == "" {
			return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Token has no subject", nil))
		}

		ctx := common.WithIdentity(c.Request().Context(), claims.Subject, claims.Role)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
