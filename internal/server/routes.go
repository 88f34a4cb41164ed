package server

import (
	"github.com/labstack/echo/v4"

	"foodcart/internal/handler"
)

type Handlers struct {
	Cart   *handler.CartHandler
	Promo  *handler.PromoHandler
	Health *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	h.Health.RegisterRoutes(e)

	api := e.Group("/api")
	h.Cart.RegisterRoutes(api)
	h.Promo.RegisterRoutes(api)
}
