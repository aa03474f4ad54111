package database

import (
	"context"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"qrkatalog_back_end/internal/config"
	"qrkatalog_back_end/internal/models"
)

// ConnectPostgres opens the relational store and migrates the schema. The
// process cannot run without it.
func ConnectPostgres(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ Postgres connection failed: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Branch{},
		&models.Product{},
		&models.LanguageView{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	log.Println("✅ Connected to Postgres")
	return db
}

// ConnectRedis dials the stats cache. Redis is optional: when unreachable the
// caller gets nil and the stats endpoint simply skips caching.
func ConnectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisHost == "" {
		log.Println("⚠️ Redis not configured — stats caching disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Println("⚠️ Redis unreachable — stats caching disabled:", err)
		return nil
	}

	log.Println("✅ Connected to Redis")
	return rdb
}

// ConnectMinIO builds the object-storage client and makes sure the bucket
// exists. Uploads and QR issuance depend on it, so failure is fatal.
func ConnectMinIO(ctx context.Context, cfg *config.Config) *minio.Client {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("❌ MinIO connection failed: %v", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		log.Fatalf("❌ MinIO bucket check failed: %v", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			log.Fatalf("❌ MinIO bucket creation failed: %v", err)
		}
		log.Println("🪣 Bucket created:", cfg.MinioBucket)
	}

	log.Println("✅ Connected to MinIO:", cfg.MinioEndpoint)
	return client
}
