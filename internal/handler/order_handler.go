package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/nukedashiso/order-system/internal/cutoff"
	"github.com/nukedashiso/order-system/internal/domain/model"
	"github.com/nukedashiso/order-system/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 前台（注文する側）のAPI
type OrderHandler struct {
	shops  []model.Shop
	uc     *usecase.OrderUsecase
	menuUC *usecase.MenuUsecase
	clock  usecase.Clock
	logger *logrus.Logger
}

func NewOrderHandler(shops []model.Shop, uc *usecase.OrderUsecase, menuUC *usecase.MenuUsecase, clock usecase.Clock, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{shops: shops, uc: uc, menuUC: menuUC, clock: clock, logger: logger}
}

type OrderCreateRequest struct {
	Name string             `json:"name"`
	Note string             `json:"note"`
	Rows []usecase.DraftRow `json:"rows"`
}

type CutoffResponse struct {
	ShopKey string `json:"shop_key"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

type MenuResponse struct {
	Shop   model.Shop     `json:"shop"`
	Cutoff CutoffResponse `json:"cutoff"`
	Images []string       `json:"images"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/shops", h.listShops)
	e.GET("/shops/:key/menu", h.menu)
	e.GET("/shops/:key/cutoff", h.cutoffState)
	e.POST("/shops/:key/orders", h.create)
}

func (h *OrderHandler) listShops(c echo.Context) error {
	return c.JSON(http.StatusOK, h.shops)
}

func (h *OrderHandler) menu(c echo.Context) error {
	shop, ok := h.findShop(c.Param("key"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "shop not found"})
	}

	names, err := h.menuUC.ListImages(shop.Key)
	if err != nil {
		return writeError(c, err)
	}

	urls := make([]string, 0, len(names))
	for _, n := range names {
		urls = append(urls, "/images/"+shop.Key+"/"+n)
	}

	return c.JSON(http.StatusOK, MenuResponse{
		Shop:   shop,
		Cutoff: h.evaluateCutoff(shop),
		Images: urls,
	})
}

func (h *OrderHandler) cutoffState(c echo.Context) error {
	shop, ok := h.findShop(c.Param("key"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "shop not found"})
	}
	return c.JSON(http.StatusOK, h.evaluateCutoff(shop))
}

func (h *OrderHandler) create(c echo.Context) error {
	shop, ok := h.findShop(c.Param("key"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "shop not found"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Submit(c.Request().Context(), shop, usecase.SubmitOrderInput{
		Name: req.Name,
		Note: req.Note,
		Rows: req.Rows,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) evaluateCutoff(shop model.Shop) CutoffResponse {
	state := cutoff.Evaluate(shop.CutoffSpec, h.clock.Now())
	if state.FellBack {
		h.logger.WithFields(logrus.Fields{
			"shop_key": shop.Key,
			"cutoff":   shop.CutoffSpec,
		}).Warn("cutoff spec unparsable, using default 18:00")
	}
	return CutoffResponse{
		ShopKey: shop.Key,
		Passed:  state.Passed,
		Message: state.Message(),
	}
}

func (h *OrderHandler) findShop(key string) (model.Shop, bool) {
	for _, s := range h.shops {
		if s.Key == key {
			return s, true
		}
	}
	return model.Shop{}, false
}
