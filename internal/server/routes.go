package server

import (
	"grocery/internal/config"
	"grocery/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Product        *handler.ProductHandler
	ManagerProduct *handler.ManagerProductHandler
	Cart           *handler.CartHandler
	Checkout       *handler.CheckoutHandler
	Report         *handler.ReportHandler
	Promo          *handler.PromoHandler
	Wishlist       *handler.WishlistHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Product.RegisterRoutes(e, cfg)
	h.ManagerProduct.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg)
	h.Report.RegisterRoutes(e, cfg)
	h.Promo.RegisterRoutes(e, cfg)
	h.Wishlist.RegisterRoutes(e, cfg)
}
