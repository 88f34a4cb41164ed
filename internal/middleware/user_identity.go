package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID = "X-User-ID"
	CtxUserIDKey = "user_id" // int64
)

// ログインは持たないので、ヘッダで渡された user id をそのまま使う。
// ヘッダが無ければ何もしない（body / query 側で受け取る）。
func UserIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if raw == "" {
				return next(c)
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				return c.JSON(http.StatusBadRequest, errorJSON("invalid "+HeaderUserID))
			}

			c.Set(CtxUserIDKey, userID)
			return next(c)
		}
	}
}

// UserIDFromContext は UserIdentity が入れた値を返す
func UserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg, Code: "INVALID_INPUT"}
}
