package app

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/varun4522/calm-campus-backend/internal/api"
	"github.com/varun4522/calm-campus-backend/internal/auth"
	"github.com/varun4522/calm-campus-backend/internal/availability"
	"github.com/varun4522/calm-campus-backend/internal/chatbot"
	"github.com/varun4522/calm-campus-backend/internal/config"
	"github.com/varun4522/calm-campus-backend/internal/emergency"
	"github.com/varun4522/calm-campus-backend/internal/events"
	"github.com/varun4522/calm-campus-backend/internal/feed"
	"github.com/varun4522/calm-campus-backend/internal/file"
	"github.com/varun4522/calm-campus-backend/internal/message"
	"github.com/varun4522/calm-campus-backend/internal/notification"
	"github.com/varun4522/calm-campus-backend/internal/pkg/storage"
	"github.com/varun4522/calm-campus-backend/internal/session"
	"github.com/varun4522/calm-campus-backend/internal/slotcache"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

// Container holds the initialized components needed by main.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Publisher  events.Publisher
}

// NewContainer wires every module together. Optional integrations
// (Redis, RabbitMQ, Gemini) are skipped when unconfigured.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	// User
	userRepo := user.NewPgxRepository(pool)
	userService := user.NewService(userRepo, passwordHasher)

	// Slot cache (optional)
	var cache slotcache.Cache = slotcache.Noop{}
	if redisClient := slotcache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); redisClient != nil {
		cache = slotcache.NewRedisCache(redisClient, cfg.SlotCacheTTL)
		log.Println("slot cache enabled")
	}

	// Session lifecycle events (optional)
	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("event publisher unavailable: %v", err)
		} else {
			publisher = p
			log.Println("event publisher enabled")
		}
	}

	// Session
	sessionRepo := session.NewPgxRepository(pool)
	sessionService := session.NewService(sessionRepo, userService, cache, publisher)

	// Availability
	availabilityRepo := availability.NewPgxRepository(pool)
	availabilityService := availability.NewService(availabilityRepo, userService)

	// Feed
	feedRepo := feed.NewPgxRepository(pool)
	feedService := feed.NewService(feedRepo)

	// Messages
	messageRepo := message.NewPgxRepository(pool)
	messageService := message.NewService(messageRepo, userService)

	// Notifications
	notificationRepo := notification.NewPgxRepository(pool)
	notificationService := notification.NewService(notificationRepo)

	// Assistant (model answers optional)
	generator, err := chatbot.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Printf("model answers unavailable: %v", err)
	}
	chatbotRepo := chatbot.NewPgxRepository(pool)
	chatbotService := chatbot.NewService(chatbotRepo, generator)

	// Emergency
	emergencyRepo := emergency.NewPgxRepository(pool)
	emergencyService := emergency.NewService(emergencyRepo, userService)

	// Files
	store, err := storage.NewLocalStorage(cfg.StorageRoot)
	if err != nil {
		return nil, err
	}
	fileRepo := file.NewPgxRepository(pool)
	fileService := file.NewService(fileRepo, store)

	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		SessionService:      sessionService,
		AvailabilityService: availabilityService,
		FeedService:         feedService,
		MessageService:      messageService,
		NotificationService: notificationService,
		ChatbotService:      chatbotService,
		EmergencyService:    emergencyService,
		FileService:         fileService,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Publisher:  publisher,
	}, nil
}

// Close releases resources held by optional integrations.
func (c *Container) Close() {
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			log.Printf("close event publisher failed: %v", err)
		}
	}
}
