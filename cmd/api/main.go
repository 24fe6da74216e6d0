package main

import (
	"log"
	"time"

	"grocery/internal/cache"
	"grocery/internal/config"
	"grocery/internal/domain/model"
	"grocery/internal/handler"
	"grocery/internal/infra/db"
	infraRepo "grocery/internal/infra/repository"
	"grocery/internal/server"
	"grocery/internal/usecase"

	"github.com/joho/godotenv"
)

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func main() {
	//.envは無くてもいい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Sale{},
		&model.PromoCode{},
		&model.Wishlist{},
		&model.WishlistItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	saleRepo := infraRepo.NewSaleGormRepository(gormDB)
	promoRepo := infraRepo.NewPromoCodeGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Redisキャッシュ（REDIS_ADDRが空なら無効）
	listCache := cache.NewProductCache(cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword))

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, auditRepo, listCache)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager)
	reportUC := usecase.NewReportUsecase(saleRepo)
	promoUC := usecase.NewPromoUsecase(promoRepo, auditRepo, &realClock{})
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo)

	//Handler生成
	handlers := server.Handlers{
		Product:        handler.NewProductHandler(productUC),
		ManagerProduct: handler.NewManagerProductHandler(productUC),
		Cart:           handler.NewCartHandler(cartUC),
		Checkout:       handler.NewCheckoutHandler(checkoutUC),
		Report:         handler.NewReportHandler(reportUC),
		Promo:          handler.NewPromoHandler(promoUC),
		Wishlist:       handler.NewWishlistHandler(wishlistUC),
	}

	//Server起動
	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, handlers)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(e, addr); err != nil {
		log.Fatal(err)
	}
}
