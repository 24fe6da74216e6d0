package handler

import (
	"net/http"
	"time"

	"grocery/internal/config"
	"grocery/internal/middleware"
	"grocery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /promocodeのHTTP
type PromoHandler struct {
	uc *usecase.PromoUsecase
}

// DI
func NewPromoHandler(uc *usecase.PromoUsecase) *PromoHandler {
	return &PromoHandler{uc: uc}
}

type CreatePromoRequest struct {
	Code            string    `json:"code"`
	DiscountPercent int64     `json:"discount_percent"`
	Active          *bool     `json:"active"`
	ExpiryDate      time.Time `json:"expiry_date"`
}

type ApplyPromoRequest struct {
	Code string `json:"code"`
}

func (h *PromoHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/promocode")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.listValid)
	g.POST("/apply", h.apply)
}

func (h *PromoHandler) create(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CreatePromoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//active省略は有効扱い
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	_, err := h.uc.CreatePromo(c.Request().Context(), p, usecase.CreatePromoInput{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		Active:          active,
		ExpiryDate:      req.ExpiryDate,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Message: "promo code created successfully"})
}

func (h *PromoHandler) listValid(c echo.Context) error {
	promos, err := h.uc.ListValidPromos(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, promos)
}

func (h *PromoHandler) apply(c echo.Context) error {
	var req ApplyPromoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ApplyPromo(c.Request().Context(), req.Code)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
