package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"foodcart/internal/domain/model"
	"foodcart/internal/usecase"
)

// /api/cart のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type IngredientQtyRequest struct {
	ID       int64 `json:"id"`
	Quantity int64 `json:"quantity"`
}

type AddCartRequest struct {
	UserID      int64                  `json:"userId"`
	ProductID   int64                  `json:"productId"`
	VariantID   int64                  `json:"variantId"`
	Quantity    int64                  `json:"quantity"`
	Ingredients []IngredientQtyRequest `json:"ingredients"`
}

type LineRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	VariantID int64 `json:"variantId"`
}

type SetVariantRequest struct {
	UserID           int64 `json:"userId"`
	ProductID        int64 `json:"productId"`
	CurrentVariantID int64 `json:"currentVariantId"`
	VariantID        int64 `json:"variantId"`
}

type IngredientRequest struct {
	UserID       int64 `json:"userId"`
	ProductID    int64 `json:"productId"`
	VariantID    int64 `json:"variantId"`
	IngredientID int64 `json:"ingredientId"`
	Quantity     int64 `json:"quantity"`
}

type AddCartResponse struct {
	TotalAmount int64            `json:"totalAmount"`
	Cart        usecase.CartView `json:"cart"`
}

type MutationResponse struct {
	Success     bool             `json:"success"`
	TotalAmount int64            `json:"totalAmount"`
	Cart        usecase.CartView `json:"cart"`
}

type IngredientResponse struct {
	Success            bool                      `json:"success"`
	TotalAmount        int64                     `json:"totalAmount"`
	CartItemIngredient *model.CartItemIngredient `json:"cartItemIngredient,omitempty"`
	Cart               usecase.CartView          `json:"cart"`
}

// /api/cart 以下を登録
func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	c := g.Group("/cart")

	c.GET("", h.getCart)
	c.GET("/summary", h.summary)
	c.POST("/add", h.add)
	c.PUT("/increase", h.increase)
	c.DELETE("/decrease", h.decrease)
	c.PUT("/setVariant", h.setVariant)
	c.POST("/addIngredient", h.addIngredient)
	c.DELETE("/removeIngredient", h.removeIngredient)
	c.PUT("/increaseIngredient", h.increaseIngredient)
	c.PUT("/updateIngredientQuantity", h.updateIngredientQuantity)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := userIDFrom(c, 0)
	if !ok {
		return badRequest(c, "userId is required")
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) summary(c echo.Context) error {
	userID, ok := userIDFrom(c, 0)
	if !ok {
		return badRequest(c, "userId is required")
	}

	out, err := h.uc.Summary(c.Request().Context(), userID, c.QueryParam("promoCode"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) add(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	userID, ok := userIDFrom(c, req.UserID)
	if !ok {
		return badRequest(c, "userId is required")
	}

	ings := make([]usecase.IngredientQty, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ings = append(ings, usecase.IngredientQty{ID: ing.ID, Quantity: ing.Quantity})
	}

	view, err := h.uc.AddItem(c.Request().Context(), userID, usecase.AddItemInput{
		ProductID:   req.ProductID,
		VariantID:   req.VariantID,
		Quantity:    req.Quantity,
		Ingredients: ings,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AddCartResponse{TotalAmount: view.TotalAmount, Cart: view})
}

func (h *CartHandler) increase(c echo.Context) error {
	return h.changeQuantity(c, h.uc.Increase)
}

func (h *CartHandler) decrease(c echo.Context) error {
	return h.changeQuantity(c, h.uc.Decrease)
}

type lineOp func(ctx context.Context, userID int64, ref usecase.LineRef) (usecase.CartView, error)

func (h *CartHandler) changeQuantity(c echo.Context, op lineOp) error {
	var req LineRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	userID, ok := userIDFrom(c, req.UserID)
	if !ok {
		return badRequest(c, "userId is required")
	}

	view, err := op(c.Request().Context(), userID, usecase.LineRef{ProductID: req.ProductID, VariantID: req.VariantID})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MutationResponse{Success: true, TotalAmount: view.TotalAmount, Cart: view})
}

func (h *CartHandler) setVariant(c echo.Context) error {
	var req SetVariantRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	userID, ok := userIDFrom(c, req.UserID)
	if !ok {
		return badRequest(c, "userId is required")
	}

	view, err := h.uc.SetVariant(c.Request().Context(), userID, usecase.SetVariantInput{
		ProductID:        req.ProductID,
		CurrentVariantID: req.CurrentVariantID,
		VariantID:        req.VariantID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MutationResponse{Success: true, TotalAmount: view.TotalAmount, Cart: view})
}

func (h *CartHandler) addIngredient(c echo.Context) error {
	return h.ingredientOp(c, h.uc.AttachIngredient)
}

func (h *CartHandler) removeIngredient(c echo.Context) error {
	return h.ingredientOp(c, h.uc.DetachIngredient)
}

func (h *CartHandler) increaseIngredient(c echo.Context) error {
	return h.ingredientOp(c, h.uc.IncreaseIngredient)
}

func (h *CartHandler) updateIngredientQuantity(c echo.Context) error {
	return h.ingredientOp(c, h.uc.SetIngredientQuantity)
}

type ingredientFn func(ctx context.Context, userID int64, in usecase.IngredientInput) (usecase.IngredientResult, error)

func (h *CartHandler) ingredientOp(c echo.Context, op ingredientFn) error {
	var req IngredientRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	userID, ok := userIDFrom(c, req.UserID)
	if !ok {
		return badRequest(c, "userId is required")
	}

	res, err := op(c.Request().Context(), userID, usecase.IngredientInput{
		Ref:          usecase.LineRef{ProductID: req.ProductID, VariantID: req.VariantID},
		IngredientID: req.IngredientID,
		Quantity:     req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, IngredientResponse{
		Success:            true,
		TotalAmount:        res.Cart.TotalAmount,
		CartItemIngredient: res.Attachment,
		Cart:               res.Cart,
	})
}
