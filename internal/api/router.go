package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/varun4522/calm-campus-backend/internal/auth"
	"github.com/varun4522/calm-campus-backend/internal/availability"
	availabilityHttp "github.com/varun4522/calm-campus-backend/internal/availability/http"
	"github.com/varun4522/calm-campus-backend/internal/chatbot"
	chatbotHttp "github.com/varun4522/calm-campus-backend/internal/chatbot/http"
	"github.com/varun4522/calm-campus-backend/internal/emergency"
	emergencyHttp "github.com/varun4522/calm-campus-backend/internal/emergency/http"
	"github.com/varun4522/calm-campus-backend/internal/feed"
	feedHttp "github.com/varun4522/calm-campus-backend/internal/feed/http"
	"github.com/varun4522/calm-campus-backend/internal/file"
	fileHttp "github.com/varun4522/calm-campus-backend/internal/file/http"
	"github.com/varun4522/calm-campus-backend/internal/message"
	messageHttp "github.com/varun4522/calm-campus-backend/internal/message/http"
	"github.com/varun4522/calm-campus-backend/internal/notification"
	notificationHttp "github.com/varun4522/calm-campus-backend/internal/notification/http"
	"github.com/varun4522/calm-campus-backend/internal/session"
	sessionHttp "github.com/varun4522/calm-campus-backend/internal/session/http"
	"github.com/varun4522/calm-campus-backend/internal/user"
	userHttp "github.com/varun4522/calm-campus-backend/internal/user/http"
)

// Config bundles everything the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	SessionService      session.Service
	AvailabilityService availability.Service
	FeedService         feed.Service
	MessageService      message.Service
	NotificationService notification.Service
	ChatbotService      chatbot.Service
	EmergencyService    emergency.Service
	FileService         file.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles global middleware and registers every module's
// routes under /v1.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	adminMiddleware := RequireAdmin()

	authHandler := NewAuthHandler(cfg.UserService, cfg.JWTManager)
	userHandler := userHttp.NewHandler(cfg.UserService)
	sessionHandler := sessionHttp.NewHandler(cfg.SessionService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService)
	feedHandler := feedHttp.NewHandler(cfg.FeedService, cfg.UserService)
	messageHandler := messageHttp.NewHandler(cfg.MessageService)
	notificationHandler := notificationHttp.NewHandler(cfg.NotificationService, cfg.UserService)
	chatbotHandler := chatbotHttp.NewHandler(cfg.ChatbotService)
	emergencyHandler := emergencyHttp.NewHandler(cfg.EmergencyService)
	fileHandler := fileHttp.NewHandler(cfg.FileService)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.POST("/auth/change-password", authMiddleware, authHandler.ChangePassword)
		v1.GET("/me", authMiddleware, authHandler.Me)

		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		sessionHttp.RegisterRoutes(v1, sessionHandler, authMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, authMiddleware)
		feedHttp.RegisterRoutes(v1, feedHandler, authMiddleware)
		messageHttp.RegisterRoutes(v1, messageHandler, authMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler, authMiddleware)
		chatbotHttp.RegisterRoutes(v1, chatbotHandler, authMiddleware, adminMiddleware)
		emergencyHttp.RegisterRoutes(v1, emergencyHandler, authMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler, authMiddleware)
	}

	return r
}
