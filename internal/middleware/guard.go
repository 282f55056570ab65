package middleware

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"incubator/internal/auth"
	apperrors "incubator/internal/errors"
	"incubator/internal/model"
	"incubator/internal/service"
)

const (
	claimsContextKey = "session_claims"
	userContextKey   = "session_user"
)

// GuardedHandler is a handler that receives the authenticated user.
type GuardedHandler func(c echo.Context, user *model.User) error

// Guard authenticates requests carrying "Authorization: Bearer <session token>".
// Every request is verified on its own; nothing is kept server-side.
type Guard struct {
	jwtService *auth.JWTService
	users      service.UserService
	verify     echo.MiddlewareFunc
}

// NewGuard builds a guard that checks session tokens with jwtService and
// resolves their email through users.
func NewGuard(jwtService *auth.JWTService, users service.UserService) *Guard {
	g := &Guard{jwtService: jwtService, users: users}
	g.verify = echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return g.jwtService.VerifyPurpose(token, auth.PurposeSession)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return respond(c, guardError(err))
		},
	})
	return g
}

// Middleware authenticates every request of a route group. Handlers read the
// identity with CurrentUser.
func (g *Guard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return g.verify(func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*auth.Claims)
			if !ok {
				return respond(c, apperrors.ErrInvalidToken)
			}
			user, err := g.users.GetByEmail(c.Request().Context(), claims.Email)
			if err != nil {
				return respond(c, err)
			}
			c.Set(userContextKey, user)
			return next(c)
		})
	}
}

// Wrap decorates h so that it runs only for authenticated requests.
func (g *Guard) Wrap(h GuardedHandler) echo.HandlerFunc {
	return g.Middleware()(func(c echo.Context) error {
		return h(c, CurrentUser(c))
	})
}

// CurrentUser returns the user resolved by the guard, or nil outside a
// guarded route.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

func guardError(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrExpiredToken):
		return apperrors.ErrExpiredToken
	case errors.Is(err, apperrors.ErrInvalidToken):
		return apperrors.ErrInvalidToken
	default:
		return apperrors.ErrMalformedHeader
	}
}

func respond(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
