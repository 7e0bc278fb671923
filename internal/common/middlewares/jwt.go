package middlewares

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/clinic-appointments/pkg/apierror"
	"github.com/c14220110/clinic-appointments/pkg/utils"
)

// ContextKeyClaims is where JWTMiddleware stores the validated *utils.Claims.
const ContextKeyClaims = "claims"

// JWTMiddleware validates a Bearer token when one is sent. Browsers cannot set
// headers on a websocket handshake, so the token query parameter is read when
// the header is absent. With required set, requests without a token are
// rejected too.
func JWTMiddleware(tokens *utils.TokenIssuer, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.QueryParam("token")
			if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || parts[0] != "Bearer" {
					return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
				}
				token = strings.TrimSpace(parts[1])
			}
			if token == "" {
				if required {
					return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
				}
				return next(c)
			}

			claims, err := tokens.ValidateJWTToken(token)
			if err != nil {
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}

			c.Set(ContextKeyClaims, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by JWTMiddleware, if any.
func ClaimsFrom(c echo.Context) (*utils.Claims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(*utils.Claims)
	return claims, ok
}

// AuthorizeUser rejects requests whose token belongs to someone other than
// userID. Requests that carried no token pass.
func AuthorizeUser(c echo.Context, userID int64) apierror.ErrorResponse {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return nil
	}
	if claims.UserID != userID {
		return apierror.ForbiddenUserError
	}
	return nil
}
