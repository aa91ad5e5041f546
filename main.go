package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"

	"learnhub-storefront-api/config"
	"learnhub-storefront-api/database"
	"learnhub-storefront-api/handlers"
	"learnhub-storefront-api/middleware"
	"learnhub-storefront-api/queue"
	"learnhub-storefront-api/services/auth"
	cartservice "learnhub-storefront-api/services/cart"
	"learnhub-storefront-api/services/catalog"
	"learnhub-storefront-api/services/notification"
	"learnhub-storefront-api/worker"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		// only log slow requests and errors
		elapsed := time.Since(start)
		if elapsed > 500*time.Millisecond || wrapper.status >= 400 {
			log.Printf(
				"%s %s %s %d %v",
				r.Method,
				r.RequestURI,
				r.RemoteAddr,
				wrapper.status,
				elapsed,
			)
		}
	})
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)

	numCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(numCPU)
	log.Printf("Server starting with %d CPUs available", numCPU)

	cfg := config.Load()
	log.Printf("Configuration loaded successfully")

	notifier := notification.NewLogNotifier()

	// Connect to MySQL with retry. The storefront keeps serving the fixture
	// catalog when no database is reachable; reviews, auth and the dashboard
	// degrade to 503.
	var db *database.Connection
	var err error
	if cfg.Database.Host != "" {
		for retries := 0; retries < 5; retries++ {
			db, err = database.NewConnection(cfg.Database)
			if err == nil {
				break
			}
			retryDelay := time.Duration(retries+1) * time.Second
			log.Printf("Failed to connect to database (attempt %d/5): %v. Retrying in %v...",
				retries+1, err, retryDelay)
			time.Sleep(retryDelay)
		}
		if err != nil {
			log.Printf("Warning: running without database: %v", err)
			db = nil
		}
	} else {
		log.Println("Warning: DB_HOST not set, running without database")
	}

	// Catalog snapshot: fixtures first, then the database takes over when
	// one is configured.
	catalogService := catalog.NewService(cfg.Catalog.RecommendSeed)
	if err := catalogService.LoadFixtures(cfg.Catalog.CoursesFixture, cfg.Catalog.ProductsFixture); err != nil {
		log.Fatalf("Failed to load catalog fixtures: %v", err)
	}
	if db != nil {
		if err := db.Bootstrap(); err != nil {
			log.Fatalf("Failed to bootstrap database schema: %v", err)
		}
		if err := db.SeedCatalog(catalogService.Courses(), catalogService.Products()); err != nil {
			log.Printf("Warning: failed to seed catalog: %v", err)
		} else if err := catalogService.RefreshFromDB(db); err != nil {
			log.Printf("Warning: failed to refresh catalog from database: %v", err)
		}
	}

	// Cart persistence: Redis when reachable, otherwise session-only memory.
	var cartStore cartservice.Store
	redisStore, err := cartservice.NewRedisStore(cfg.Redis.URL)
	if err != nil {
		log.Printf("Warning: cart store falling back to memory: %v", err)
		cartStore = cartservice.NewMemoryStore()
	} else {
		cartStore = redisStore
		defer redisStore.Close()
		log.Println("Successfully connected to Redis for cart store")
	}
	cartManager := cartservice.NewManager(cartStore, notifier)

	// Order queue and worker. orderQueue stays nil when Redis is down so
	// checkout answers 503 instead of holding a dead client.
	var orderQueue handlers.OrderQueue
	var jobQueue *queue.Queue
	jobQueue, err = queue.NewQueue(cfg.Redis.URL, "order_jobs")
	if err != nil {
		log.Printf("Warning: running without order queue: %v", err)
		jobQueue = nil
	} else {
		orderQueue = jobQueue
		defer jobQueue.Close()

		workerConcurrency := cfg.Worker.Concurrency
		if workerConcurrency < 1 {
			workerConcurrency = 1
		} else if workerConcurrency > 8 {
			workerConcurrency = 8
		}

		orderWorker := worker.NewWorker(jobQueue, db, catalogService, notifier)
		orderWorker.Start(workerConcurrency)
		defer orderWorker.Stop()
		log.Printf("Started order worker with %d threads", workerConcurrency)
	}

	var jwtService *auth.JWTService
	if db != nil {
		jwtService = auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, db)
	}

	sessionStore := handlers.NewSessionStore(cfg)

	catalogHandler := handlers.NewCatalogHandler(catalogService, db)
	recommendationHandler := handlers.NewRecommendationHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartManager, catalogService, sessionStore)
	checkoutHandler := handlers.NewCheckoutHandler(cartManager, orderQueue, sessionStore)
	reviewHandler := handlers.NewReviewHandler(db, catalogService, notifier)
	authHandler := handlers.NewAuthHandler(jwtService)
	memberHandler := handlers.NewMemberHandler(db)

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(loggingMiddleware)
	router.Use(middleware.SecurityHeadersMiddleware)

	if rateLimiter, err := middleware.NewRateLimiter(cfg.Redis.URL); err != nil {
		log.Printf("Warning: running without rate limiting: %v", err)
	} else {
		router.Use(rateLimiter.RateLimitMiddleware())
		defer rateLimiter.Close()
	}

	api := router.PathPrefix("/api").Subrouter()

	// Catalog
	api.HandleFunc("/courses", catalogHandler.GetCourses).Methods("GET", "OPTIONS")
	api.HandleFunc("/courses/{id:[0-9]+}", catalogHandler.GetCourse).Methods("GET", "OPTIONS")
	api.HandleFunc("/products", catalogHandler.GetProducts).Methods("GET", "OPTIONS")
	api.HandleFunc("/products/{id:[0-9]+}", catalogHandler.GetProduct).Methods("GET", "OPTIONS")

	// Recommendations
	api.HandleFunc("/recommendations", recommendationHandler.GetRecommendations).Methods("GET", "OPTIONS")
	api.HandleFunc("/{kind}/{id:[0-9]+}/related", recommendationHandler.GetRelated).Methods("GET", "OPTIONS")
	api.HandleFunc("/{kind}/{id:[0-9]+}/bought-together", recommendationHandler.GetBoughtTogether).Methods("GET", "OPTIONS")

	// Cart
	api.HandleFunc("/cart", cartHandler.GetCart).Methods("GET", "OPTIONS")
	api.HandleFunc("/cart", cartHandler.AddToCart).Methods("POST", "OPTIONS")
	api.HandleFunc("/cart/quantity", cartHandler.UpdateQuantity).Methods("PUT", "OPTIONS")
	api.HandleFunc("/cart/remove", cartHandler.RemoveFromCart).Methods("POST", "OPTIONS")
	api.HandleFunc("/cart/clear", cartHandler.ClearCart).Methods("POST", "OPTIONS")
	api.HandleFunc("/cart/visibility", cartHandler.SetVisibility).Methods("PUT", "OPTIONS")
	api.HandleFunc("/cart/visibility/toggle", cartHandler.ToggleVisibility).Methods("POST", "OPTIONS")

	// Reviews
	api.HandleFunc("/courses/{id:[0-9]+}/reviews", reviewHandler.GetCourseReviews).Methods("GET", "OPTIONS")

	// Auth
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")

	// Checkout attributes the order to the member when a token is present.
	checkoutRoute := http.Handler(http.HandlerFunc(checkoutHandler.Checkout))
	if jwtService != nil {
		checkoutRoute = middleware.OptionalAuth(jwtService)(checkoutRoute)
	}
	api.Handle("/checkout", checkoutRoute).Methods("POST", "OPTIONS")

	// Member-only surface
	if jwtService != nil {
		protected := api.PathPrefix("/member").Subrouter()
		protected.Use(middleware.AuthMiddleware(jwtService))
		protected.HandleFunc("/dashboard", memberHandler.Dashboard).Methods("GET", "OPTIONS")

		reviewRoute := middleware.AuthMiddleware(jwtService)(http.HandlerFunc(reviewHandler.CreateReview))
		api.Handle("/reviews", reviewRoute).Methods("POST", "OPTIONS")
	}

	startTime := time.Now()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status    string `json:"status"`
			Time      string `json:"time"`
			Database  string `json:"database"`
			Redis     string `json:"redis"`
			Uptime    string `json:"uptime"`
			GoVersion string `json:"go_version"`
		}{
			Status:    "ok",
			Time:      time.Now().Format(time.RFC3339),
			Database:  "connected",
			Redis:     "connected",
			Uptime:    fmt.Sprintf("%v", time.Since(startTime)),
			GoVersion: runtime.Version(),
		}

		if db == nil {
			health.Status = "degraded"
			health.Database = "not configured"
		} else {
			dbCtx, dbCancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			if err := db.GetDB().PingContext(dbCtx); err != nil {
				health.Status = "degraded"
				health.Database = "error"
			}
			dbCancel()
		}

		if jobQueue == nil {
			health.Status = "degraded"
			health.Redis = "not connected"
		} else {
			redisCtx, redisCancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			if err := jobQueue.Client().Ping(redisCtx).Err(); err != nil {
				health.Status = "degraded"
				health.Redis = "error"
			}
			redisCancel()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	}).Methods("GET")

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped")
}
