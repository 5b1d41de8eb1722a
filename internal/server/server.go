package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "cardtrack/docs"
	"cardtrack/internal/auth"
	"cardtrack/internal/broadcast"
	"cardtrack/internal/config"
	"cardtrack/internal/database"
	"cardtrack/internal/handler"
	"cardtrack/internal/middleware"
	"cardtrack/internal/realtime"
	"cardtrack/internal/repository"
	"cardtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Hub    *broadcast.Hub
	Relay  *broadcast.RedisRelay
	Logger *slog.Logger

	Boards *service.BoardService
}

// Init connects to the database, migrates it when configured and builds the
// server.
func Init(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database", "driver", cfg.DBDriver)

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}
	return New(cfg, db, logger)
}

// New wires repositories, services and routes over an open database.
func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	codec, err := auth.NewTokenCodec(cfg.TokenMode, cfg.TokenPrefix, cfg.JWTSecret, cfg.JWTExpiry())
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	hub := broadcast.NewHub(cfg.SubscriberBuffer)
	var (
		pub   broadcast.Publisher = hub
		relay *broadcast.RedisRelay
	)
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		relay = broadcast.NewRedisRelay(rdb, cfg.RedisChannelPrefix, hub, logger)
		pub = relay
	}
	notifier := broadcast.New(pub, logger)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	cardRepo := repository.NewCardRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize services
	creds := service.NewCredentialStore(userRepo, codec, logger)
	members := service.NewMembershipService(boardRepo, memberRepo, creds, notifier)
	boards := service.NewBoardService(boardRepo, members, notifier)
	columns := service.NewColumnService(columnRepo, cardRepo, members, notifier)
	cards := service.NewCardService(cardRepo, columnRepo, members, notifier)
	chat := service.NewChatService(messageRepo, members, notifier)

	// Initialize handlers
	userHandler := handler.NewUserHandler(creds, logger)
	boardHandler := handler.NewBoardHandler(boards, logger)
	memberHandler := handler.NewMemberHandler(members, logger)
	columnHandler := handler.NewColumnHandler(columns, logger)
	cardHandler := handler.NewCardHandler(cards, logger)
	messageHandler := handler.NewMessageHandler(chat, logger)
	gateway := realtime.NewGateway(creds, members, chat, hub, realtime.Options{
		AllowedOrigins: cfg.AllowedOrigins,
	}, logger)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	// Public routes
	r.POST("/users/register", userHandler.Register)
	r.POST("/users/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// The websocket endpoint authenticates on its own so it can also read
	// the token from the query string.
	r.GET("/ws/boards/:board_id", gateway.Handle)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.TokenAuthMiddleware(creds))
	{
		authorized.GET("/users/me", userHandler.Me)
		authorized.GET("/users/:user_id", userHandler.GetByID)
		authorized.PATCH("/users/:user_id", userHandler.UpdateProfile)
		authorized.POST("/users/:user_id/change-password", userHandler.ChangePassword)

		// Board routes
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards/:board_id", boardHandler.GetByID)
		authorized.PUT("/boards/:board_id", boardHandler.Update)
		authorized.PATCH("/boards/:board_id", boardHandler.Update)
		authorized.DELETE("/boards/:board_id", boardHandler.Delete)

		// Membership routes
		authorized.GET("/boards/:board_id/members", memberHandler.List)
		authorized.POST("/boards/:board_id/members", memberHandler.Invite)
		authorized.POST("/boards/:board_id/invite", memberHandler.Invite)
		authorized.PATCH("/boards/:board_id/members/:member_id", memberHandler.ChangeRole)
		authorized.DELETE("/boards/:board_id/members/:member_id", memberHandler.Remove)
		authorized.POST("/boards/:board_id/leave", memberHandler.Leave)

		// Column routes
		authorized.GET("/boards/:board_id/columns", columnHandler.GetAll)
		authorized.POST("/boards/:board_id/columns", columnHandler.Create)
		authorized.GET("/boards/:board_id/columns/:column_id", columnHandler.GetByID)
		authorized.PUT("/boards/:board_id/columns/:column_id", columnHandler.Update)
		authorized.PATCH("/boards/:board_id/columns/:column_id", columnHandler.Update)
		authorized.DELETE("/boards/:board_id/columns/:column_id", columnHandler.Delete)

		// Card routes
		cardsPath := "/boards/:board_id/columns/:column_id/cards"
		authorized.GET(cardsPath, cardHandler.GetAll)
		authorized.POST(cardsPath, cardHandler.Create)
		authorized.GET(cardsPath+"/:card_id", cardHandler.GetByID)
		authorized.PUT(cardsPath+"/:card_id", cardHandler.Update)
		authorized.PATCH(cardsPath+"/:card_id", cardHandler.Update)
		authorized.DELETE(cardsPath+"/:card_id", cardHandler.Delete)

		// Chat history
		authorized.GET("/boards/:board_id/messages", messageHandler.GetAll)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
		Hub:    hub,
		Relay:  relay,
		Logger: logger,
		Boards: boards,
	}, nil
}

// Run serves HTTP, and the Redis relay when configured, until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Logger.Info("server running", "port", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	if s.Relay != nil {
		g.Go(func() error {
			return s.Relay.Run(ctx)
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		s.Logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		s.Logger.Info("server exited properly")
		return nil
	})
	return g.Wait()
}
