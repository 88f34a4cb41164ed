package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"foodcart/internal/middleware"
	"foodcart/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

// New はミドルウェアとルートを登録した echo を返す
func New(log *logger.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.UserIdentity())
	e.Use(middleware.RequestLogger(log))

	RegisterRoutes(e, h)
	return e
}

// Start は ctx が終わるまで待ち、終わったら graceful に止める
func Start(ctx context.Context, e *echo.Echo, addr string, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("http server shutting down")
	return e.Shutdown(sctx)
}
