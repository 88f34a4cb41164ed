package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"foodcart/internal/middleware"
	"foodcart/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			return c.JSON(he.Status, ErrorResponse{Error: "internal error", Code: usecase.CodeInternal})
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Code: he.Code})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: usecase.CodeInternal})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: usecase.CodeInvalidInput})
}

// 優先順: body → X-User-ID ヘッダ → ?userId=
func userIDFrom(c echo.Context, fromBody int64) (int64, bool) {
	if fromBody > 0 {
		return fromBody, true
	}
	if id, ok := middleware.UserIDFromContext(c); ok {
		return id, true
	}
	raw := strings.TrimSpace(c.QueryParam("userId"))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
