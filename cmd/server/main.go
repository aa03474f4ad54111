package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"qrkatalog_back_end/internal/config"
	"qrkatalog_back_end/internal/database"
	"qrkatalog_back_end/internal/handlers"
	"qrkatalog_back_end/internal/routes"
	"qrkatalog_back_end/internal/services"
	"qrkatalog_back_end/internal/storage"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db := database.ConnectPostgres(cfg)
	rdb := database.ConnectRedis(ctx, cfg)
	minioClient := database.ConnectMinIO(ctx, cfg)

	store := storage.New(minioClient, cfg.MinioBucket, cfg.MinioEndpoint, cfg.MinioUseSSL)
	qr := services.NewQRIssuer(db, store, cfg.BaseURL)

	sessionStore := newSessionStore(cfg)

	h := handlers.New(db, cfg, sessionStore, rdb, store, qr)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))
	routes.Register(r, h, sessionStore)

	log.Println("🚀 QR catalog server listening on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("❌ Server stopped:", err)
	}
}

func newSessionStore(cfg *config.Config) sessions.Store {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // enable behind HTTPS
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
