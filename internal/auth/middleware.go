package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/eimantasp123/fitrone-back-end-sub000/internal/models"
)

const ContextPrincipalKey = "principal"

// JWTMiddleware проверяет bearer-токен и сохраняет принципала в контексте.
func JWTMiddleware(manager *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := manager.ParseToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			tier := models.PlanTier(claims.Tier)
			switch tier {
			case models.PlanTierBase, models.PlanTierPro, models.PlanTierPremium:
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid plan tier")
			}

			c.Set(ContextPrincipalKey, models.Principal{
				ID:       userID,
				Tier:     tier,
				Timezone: claims.Timezone,
			})
			return next(c)
		}
	}
}

// PrincipalFromContext извлекает принципала запроса из контекста.
func PrincipalFromContext(c echo.Context) (models.Principal, bool) {
	value := c.Get(ContextPrincipalKey)
	principal, ok := value.(models.Principal)
	return principal, ok
}
