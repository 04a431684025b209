package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/cache"
	"github.com/chaigneaudoryan/shelfy-backend/internal/catalog"
	"github.com/chaigneaudoryan/shelfy-backend/internal/handlers"
	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/middleware"
	"github.com/chaigneaudoryan/shelfy-backend/internal/repository"
	"github.com/chaigneaudoryan/shelfy-backend/internal/service"
	"github.com/chaigneaudoryan/shelfy-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Shelfy Backend",
		// Support avatar uploads up to 5MB + overhead.
		BodyLimit: 8 * 1024 * 1024, // 8MB
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Shelfy-CSRF",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	suggestionCache := cache.NewSuggestionCache(redisCache)
	catalogClient := catalog.NewGoogleBooksClient(redisCache)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	groupInviteRepo := repository.NewGroupInviteRepository(db)
	bookRepo := repository.NewBookRepository(db)
	groupBookRepo := repository.NewGroupBookRepository(db)
	pollRepo := repository.NewPollRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, refreshTokenRepo)
	userService := service.NewUserService(userRepo)
	groupService := service.NewGroupService(groupRepo, groupInviteRepo)
	suggestionService := service.NewSuggestionService(groupRepo, groupBookRepo, bookRepo, catalogClient, suggestionCache)
	pollService := service.NewPollService(groupRepo, groupBookRepo, pollRepo, suggestionCache)
	readingService := service.NewReadingService(groupRepo, groupBookRepo, pollRepo, suggestionCache)
	progressService := service.NewProgressService(groupRepo, groupBookRepo, progressRepo)
	commentService := service.NewCommentService(groupRepo, groupBookRepo, progressRepo, commentRepo, userRepo)

	// Initialize S3/MinIO storage (best-effort; feature endpoints return 503 if missing)
	var s3Store *storage.S3Storage
	if cfg, err := storage.LoadS3ConfigFromEnv(); err != nil {
		log.Printf("WARNING: S3 storage not configured: %v", err)
	} else if st, err := storage.NewS3Storage(cfg); err != nil {
		log.Printf("WARNING: Failed to initialize S3 storage: %v", err)
	} else {
		s3Store = st
		log.Printf("S3 storage initialized successfully (bucket=%s)", cfg.Bucket)
	}

	avatarService := service.NewAvatarService(userRepo, s3Store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	avatarHandler := handlers.NewAvatarHandler(avatarService)
	mediaHandler := handlers.NewMediaHandler(s3Store)
	groupHandler := handlers.NewGroupHandler(groupService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)
	pollHandler := handlers.NewPollHandler(pollService)
	readingHandler := handlers.NewReadingHandler(readingService)
	progressHandler := handlers.NewProgressHandler(progressService)
	commentHandler := handlers.NewCommentHandler(commentService)
	catalogHandler := handlers.NewCatalogHandler(catalogClient)

	// Public routes
	api := app.Group("/api", middleware.OriginAllowed())
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Get("/csrf", authHandler.CSRF)
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh) // No CSRF required - protected by HttpOnly refresh token
	auth.Post("/logout", middleware.CSRFRequired(), authHandler.Logout)
	api.Get("/users/check-username", userHandler.CheckUsername) // Public endpoint for username check
	api.Get("/join/:token", groupHandler.GetInvitePreview)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired(), middleware.CSRFRequired())
	protected.Get("/users/me", userHandler.GetCurrentUser)
	protected.Put("/users/me", userHandler.UpdateProfile)
	protected.Post(
		"/users/me/avatar",
		limiter.New(limiter.Config{
			Max:        10,
			Expiration: 10 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				if uid, err := httpx.LocalUint(c, "userID"); err == nil {
					return "avatar:" + strconv.FormatUint(uint64(uid), 10)
				}
				return c.IP()
			},
		}),
		avatarHandler.UploadMyAvatar,
	)
	protected.Delete("/users/me/avatar", avatarHandler.DeleteMyAvatar)
	protected.Get("/media/*", mediaHandler.ServeMedia)
	protected.Get("/users/search", userHandler.SearchUsers)
	protected.Get("/users/:id", userHandler.GetUser)

	// Catalog routes
	protected.Get("/books/search", catalogHandler.SearchBooks)
	protected.Get("/books/volumes/:volumeId", catalogHandler.GetVolume)

	// Group routes
	protected.Post("/groups", groupHandler.CreateGroup)
	protected.Get("/groups", groupHandler.GetMyGroups)
	protected.Get("/groups/:id", groupHandler.GetGroup)
	protected.Get("/groups/:id/members", groupHandler.GetGroupMembers)
	protected.Post("/groups/:id/leave", groupHandler.LeaveGroup)
	protected.Post("/groups/:id/invite-links", groupHandler.CreateInviteLink)
	protected.Post("/join/:token", groupHandler.JoinByInviteLink)

	// Book club routes
	protected.Post("/groups/:id/suggestions", suggestionHandler.SuggestBook)
	protected.Get("/groups/:id/suggestions", suggestionHandler.ListSuggestions)
	protected.Get("/groups/:id/books", readingHandler.ListGroupBooks)
	protected.Get("/groups/:id/books/current", readingHandler.GetCurrentBook)
	protected.Post("/groups/:id/polls", pollHandler.CreatePoll)
	protected.Get("/groups/:id/polls", pollHandler.ListPolls)
	protected.Get("/groups/:id/polls/:pollId", pollHandler.GetPoll)
	protected.Post("/groups/:id/polls/:pollId/vote", pollHandler.Vote)
	protected.Post("/groups/:id/polls/:pollId/set-current-reading", readingHandler.SetCurrentReading)
	protected.Patch("/groups/:id/books/:groupBookId/progress", progressHandler.UpdateProgress)
	protected.Get("/groups/:id/books/:groupBookId/progress", progressHandler.GetProgress)
	protected.Put("/groups/:id/books/:groupBookId/rating", progressHandler.SetRating)
	protected.Post("/groups/:id/books/:groupBookId/comments", commentHandler.AddComment)
	protected.Get("/groups/:id/books/:groupBookId/comments", commentHandler.ListComments)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Shelfy is running",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
