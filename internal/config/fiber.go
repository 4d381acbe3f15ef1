package config

import (
	"SikshaMantra/internal/middleware"
	"SikshaMantra/pkg/handlerUtil"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:           "Siksha Mantra Backend",
			BodyLimit:         1 * 1024 * 1024,
			DisableKeepalive:  false,
			StrictRouting:     true,
			CaseSensitive:     true,
			EnablePrintRoutes: true,
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
			ErrorHandler: func(ctx *fiber.Ctx, err error) error {
				requestID, _ := ctx.Locals(middleware.RequestIDKey).(string)
				return handlerUtil.New(logger).Handle(ctx, requestID, err, ctx.Path(), "fiber")
			},
		})

	return app
}
