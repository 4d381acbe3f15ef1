package middleware

import (
	"SikshaMantra/internal/entity"
	"SikshaMantra/pkg/handlerUtil"
	jwtPkg "SikshaMantra/pkg/jwt"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = jwtPkg.AccessTokenSecret
	UserLocalsKey     = "user"

	unauthorizedMessage = "Unauthorized, access token invalid or expired"
)

type tokenMiddleware struct {
	secretEnvKey string
}

func newTokenMiddleware(secretEnvKey string) *tokenMiddleware {
	return &tokenMiddleware{secretEnvKey: secretEnvKey}
}

func (m *middleware) unauthorized(ctx *fiber.Ctx, reason string) error {
	requestID := m.GetRequestID(ctx)

	m.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"client_ip":  ctx.IP(),
		"error":      reason,
	}).Debug("Token check failed")

	return handlerUtil.New(m.log).HandleUnauthorized(ctx, requestID, unauthorizedMessage)
}

// authenticate verifies the bearer token and stores the user in locals.
func (m *middleware) authenticate(ctx *fiber.Ctx) (entity.UserLoginData, error) {
	userToken, err := jwtPkg.VerifyTokenHeader(ctx, m.token.secretEnvKey)
	if err != nil {
		return entity.UserLoginData{}, err
	}

	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		return entity.UserLoginData{}, errors.New("invalid token claims")
	}

	user, err := jwtPkg.ClaimsToUser(claims)
	if err != nil {
		return entity.UserLoginData{}, err
	}
	ctx.Locals(UserLocalsKey, user)

	m.log.WithFields(logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"user_id":    user.ID,
		"role":       user.Role,
	}).Debug("Authentication successful")
	return user, nil
}

func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	if ctx.Get(fiber.HeaderAuthorization) == "" {
		return m.unauthorized(ctx, "Authorization header is missing")
	}

	if _, err := m.authenticate(ctx); err != nil {
		return m.unauthorized(ctx, err.Error())
	}
	return ctx.Next()
}

// NewOptionalTokenMiddleware lets anonymous requests through. A request that
// does send a token must send a valid one.
func (m *middleware) NewOptionalTokenMiddleware(ctx *fiber.Ctx) error {
	if ctx.Get(fiber.HeaderAuthorization) == "" {
		return ctx.Next()
	}

	if _, err := m.authenticate(ctx); err != nil {
		return m.unauthorized(ctx, err.Error())
	}
	return ctx.Next()
}

// NewAdminMiddleware must run after NewTokenMiddleware.
func (m *middleware) NewAdminMiddleware(ctx *fiber.Ctx) error {
	user, ok := ctx.Locals(UserLocalsKey).(entity.UserLoginData)
	if !ok {
		return m.unauthorized(ctx, "no authenticated user")
	}

	if !user.Role.IsAdmin() {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"user_id":    user.ID,
			"role":       user.Role,
		}).Warn("Admin access denied")
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "admin access required",
		})
	}

	return ctx.Next()
}
