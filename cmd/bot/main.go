package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gacha-collector-bot/internal/cache"
	"gacha-collector-bot/internal/config"
	"gacha-collector-bot/internal/repository"
	"gacha-collector-bot/internal/service"
	"gacha-collector-bot/internal/transport/discord"
	httpTransport "gacha-collector-bot/internal/transport/http"
	"gacha-collector-bot/internal/transport/http/handler"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	log.Printf("Starting %s v%s in %s mode",
		cfg.App.Name,
		cfg.App.Version,
		cfg.App.Environment,
	)

	// Connect to MySQL
	db, err := connectDB(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✓ Database connected")

	// Initialize schema and repositories
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInit()

	if err := repository.InitSchema(initCtx, db); err != nil {
		log.Fatalf("FATAL: Failed to initialize schema: %v", err)
	}

	userRepo := repository.NewMySQLUserRepository(db)
	characterRepo := repository.NewMySQLCharacterRepository(db)
	collectionRepo := repository.NewMySQLCollectionRepository(db)

	if err := repository.SeedCharacters(initCtx, characterRepo); err != nil {
		log.Fatalf("FATAL: Failed to seed characters: %v", err)
	}
	log.Println("✓ Schema initialized, catalog seeded")

	// Claim cooldowns: Redis when available, in-memory fallback otherwise
	var cooldowns cache.CooldownStore
	redisStore, err := cache.NewRedisCooldownStore(cache.RedisCooldownConfig{
		Addr:     cfg.Cache.RedisAddr(),
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
		Cooldown: cfg.Gacha.ClaimCooldown,
	})
	if err != nil {
		log.Printf("⚠ Redis unavailable: %v (using in-memory cooldowns)", err)
		cooldowns = cache.NewMemoryCooldownStore(cfg.Gacha.ClaimCooldown)
	} else {
		cooldowns = redisStore
		log.Println("✓ Redis cooldown store enabled")
	}
	defer cooldowns.Close()

	// Spawn registry
	registry := service.NewSpawnRegistry(cfg.Gacha.ClaimWindow)
	defer registry.Close()

	// Discord gateway
	bot, err := discord.NewBot(cfg.Bot.Token)
	if err != nil {
		log.Fatalf("FATAL: Failed to create Discord session: %v", err)
	}

	announcer := discord.NewAnnouncer(bot.Session)

	// Core services
	claimService := service.NewClaimService(
		userRepo, characterRepo, collectionRepo,
		registry, cooldowns, announcer, cfg.Gacha,
	)
	bot.HandleClaims(claimService)

	spawner := service.NewSpawner(characterRepo, registry, announcer, bot, cfg.Gacha)

	if err := bot.Open(); err != nil {
		log.Fatalf("FATAL: Failed to connect to Discord: %v", err)
	}
	defer bot.Close()
	log.Println("✓ Discord gateway connected")

	spawner.Start()
	defer spawner.Stop()

	// Admin HTTP surface
	httpHandler := handler.New(db)
	adminHandler := handler.NewAdminHandler(userRepo, characterRepo, collectionRepo, registry, spawner)
	router := httpTransport.NewRouter(httpHandler, adminHandler)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.Server.Address())
		log.Println("Available endpoints:")
		log.Println("  GET  /api/v1/health")
		log.Println("  GET  /api/v1/ready")
		log.Println("  GET  /api/v1/admin/stats")
		log.Println("  GET  /api/v1/admin/users/{discord_id}")
		log.Println("  POST /api/v1/admin/spawn")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Stopped gracefully")
}

// connectDB establishes a connection to a MySQL database.
func connectDB(host string, port int, user, password, dbName string) (*sql.DB, error) {
	// DSN with timeout settings to prevent hanging connections
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci&timeout=5s&readTimeout=10s&writeTimeout=10s",
		user, password, host, port, dbName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Verify connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// init sets up logging format
func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
}
