package server

import (
	"github.com/labstack/echo/v4"

	"github.com/nukedashiso/order-system/internal/handler"
)

// Startはルートを登録してHTTPサーバーを起動する。
func Start(addr string, imageDir string, orderH *handler.OrderHandler, adminH *handler.AdminOrderHandler) error {
	e := echo.New()
	e.HideBanner = true

	// メニュー画像はそのまま静的配信
	e.Static("/images", imageDir)

	orderH.RegisterRoutes(e)
	adminH.RegisterRoutes(e)

	return e.Start(addr)
}
