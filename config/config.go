package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"learnhub-storefront-api/database"
)

type Config struct {
	Database database.DatabaseConfig
	Server   ServerConfig
	Redis    RedisConfig
	Session  SessionConfig
	JWT      JWTConfig
	Catalog  CatalogConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port string
}

type RedisConfig struct {
	URL string
}

type SessionConfig struct {
	Secret string
	Domain string
	MaxAge int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CatalogConfig struct {
	CoursesFixture  string
	ProductsFixture string
	// RecommendSeed pins the recommendation jitter for reproducible runs;
	// 0 means seed from the clock.
	RecommendSeed int64
}

type WorkerConfig struct {
	Concurrency int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		Database: database.DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "learnhub-dev-secret"),
			Domain: os.Getenv("SESSION_DOMAIN"),
			MaxAge: getEnvInt("SESSION_MAX_AGE", 86400*30),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "learnhub-dev-jwt"),
			Issuer: getEnv("JWT_ISSUER", "learnhub-storefront"),
		},
		Catalog: CatalogConfig{
			CoursesFixture:  getEnv("COURSES_FIXTURE", "data/courses.json"),
			ProductsFixture: getEnv("PRODUCTS_FIXTURE", "data/products.json"),
			RecommendSeed:   int64(getEnvInt("RECOMMEND_SEED", 0)),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 2),
		},
	}

	if cfg.Redis.URL == "" {
		cfg.Redis.URL = "redis://localhost:6379/0"
		log.Printf("Warning: REDIS_URL not set, using default: %s", cfg.Redis.URL)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid value for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
