package handler

import (
	"net/http"

	"grocery/internal/config"
	"grocery/internal/middleware"
	"grocery/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /reportsのHTTP。マネージャー専用
type ReportHandler struct {
	uc *usecase.ReportUsecase
}

// DI
func NewReportHandler(uc *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/reports")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.ManagerRoleGuard())

	g.GET("", h.salesReport)
}

func (h *ReportHandler) salesReport(c echo.Context) error {
	p, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	rows, err := h.uc.SalesReport(c.Request().Context(), p, usecase.SalesReportInput{
		Filter:   c.QueryParam("filter"),
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, rows)
}
