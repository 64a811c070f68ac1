package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nukedashiso/order-system/internal/domain/model"
	"github.com/nukedashiso/order-system/internal/usecase"
)

// 管理者（幹事）向けAPI。認証はスコープ外（非目標）。
type AdminOrderHandler struct {
	shops     []model.Shop
	uc        *usecase.AdminOrderUsecase
	summaryUC *usecase.SummaryUsecase
	menuUC    *usecase.MenuUsecase
	logger    *logrus.Logger
}

func NewAdminOrderHandler(shops []model.Shop, uc *usecase.AdminOrderUsecase, summaryUC *usecase.SummaryUsecase, menuUC *usecase.MenuUsecase, logger *logrus.Logger) *AdminOrderHandler {
	return &AdminOrderHandler{shops: shops, uc: uc, summaryUC: summaryUC, menuUC: menuUC, logger: logger}
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo) {
	admin := e.Group("/admin")

	admin.GET("/shops/:key/orders", h.list)
	admin.GET("/shops/:key/summary", h.summary)
	admin.PUT("/orders/:id/paid", h.togglePaid)
	admin.GET("/shops/:key/export", h.export)
	admin.POST("/shops/:key/export/sync", h.syncExport)
	admin.POST("/shops/:key/menu/images", h.uploadImages)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	shop, ok := h.findShop(c.Param("key"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "shop not found"})
	}

	out, err := h.uc.List(c.Request().Context(), shop.Key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) summary(c echo.Context) error {
	shop, ok := h.findShop(c.Param("key"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "shop not found"})
	}

	out, err := h.summaryUC.ShopSummary(c.Request().Context(), shop.Key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) togglePaid(c echo.Context) error {
	orderID := c.Param("id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.TogglePaid(c.Request().Context(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// xlsxをその場で組み立ててダウンロードさせる（ディスクには書かない）
func (h *AdminOrderHandler) export(c echo.Context) error {
	shop, ok := h.findShop(c.Param("key"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "shop not found"})
	}

	data, err := h.uc.Export(c.Request().Context(), shop)
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+shop.Key+`_orders.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *AdminOrderHandler) syncExport(c echo.Context) error {
	shop, ok := h.findShop(c.Param("key"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "shop not found"})
	}

	path, err := h.uc.SyncExport(c.Request().Context(), shop)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "synced to " + path})
}

// 複数ファイル対応（フォームフィールド名: images）
func (h *AdminOrderHandler) uploadImages(c echo.Context) error {
	shop, ok := h.findShop(c.Param("key"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "shop not found"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
	}
	files := form.File["images"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no images"})
	}

	saved := make([]string, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid image file"})
		}

		name, err := h.menuUC.SaveImage(shop.Key, fh.Filename, src)
		src.Close()
		if err != nil {
			return writeError(c, err)
		}
		saved = append(saved, name)
	}

	h.logger.WithFields(logrus.Fields{
		"shop_key": shop.Key,
		"count":    len(saved),
	}).Info("menu images uploaded")

	return c.JSON(http.StatusOK, map[string]interface{}{"saved": saved})
}

func (h *AdminOrderHandler) findShop(key string) (model.Shop, bool) {
	for _, s := range h.shops {
		if s.Key == key {
			return s, true
		}
	}
	return model.Shop{}, false
}
