package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"foodcart/internal/usecase"
)

// /api/promo のHTTP
type PromoHandler struct {
	uc *usecase.PromoUsecase
}

// DI
func NewPromoHandler(uc *usecase.PromoUsecase) *PromoHandler {
	return &PromoHandler{uc: uc}
}

type ApplyPromoRequest struct {
	PromoCode   string `json:"promoCode"`
	TotalAmount int64  `json:"totalAmount"`
}

func (h *PromoHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/promo/apply", h.apply)
}

func (h *PromoHandler) apply(c echo.Context) error {
	var req ApplyPromoRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Apply(c.Request().Context(), usecase.ApplyPromoInput{
		Code:   req.PromoCode,
		Amount: req.TotalAmount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
