// File: concierge/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concierge/config"
	"concierge/database"
	"concierge/handlers"
	"concierge/middleware"
	"concierge/routes"
	"concierge/services/booking"
	"concierge/services/chat"
	"concierge/services/intent"
	"concierge/services/llm"
	"concierge/services/rag"
	"concierge/services/session"
	"concierge/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()
	utils.StartHealthMonitor(utils.GetSessionClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Session state.
	store := session.NewRedisStore(utils.GetSessionClient(), config.SessionTTL())
	locker := session.NewLocker()

	// Booking path.
	pmsClient := booking.NewPmsClient(config.AppConfig.PmsBaseURL, config.AppConfig.PmsToken)
	orchestrator := booking.NewQuoteOrchestrator(pmsClient, config.PmsTimeout())
	engine := booking.NewEngine(booking.NewRegexExtractor(), orchestrator)

	// General path.
	factStore := rag.NewMongoFactStore(database.MongoClient, config.AppConfig.MongoDatabase, config.AppConfig.FactsLimit)
	vectorSearch := rag.NewQdrantSearch(config.AppConfig.QdrantURL, config.AppConfig.QdrantCollection, config.AppConfig.EmbedURL)
	composer := rag.NewComposer(factStore, vectorSearch,
		config.AppConfig.VectorTopK, config.AppConfig.MaxSnippets, config.AppConfig.ContextCharBudget)
	guard := rag.NewGuard(config.AppConfig.GroundingMinHits)

	var llmClient llm.Client
	if config.AppConfig.LLMDryRun {
		llmClient = llm.NewDryRunClient()
	} else {
		client, err := llm.NewGeminiClient(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize Gemini client: %v", err)
		}
		llmClient = client
		if ttl := config.LLMCacheTTL(); ttl > 0 {
			llmClient = llm.NewCachedClient(client, utils.GetSessionClient(), ttl)
		}
	}

	chatService := &chat.DefaultChatService{
		Store:       store,
		Locker:      locker,
		Router:      intent.NewRouter(),
		Engine:      engine,
		Composer:    composer,
		Guard:       guard,
		LLM:         llmClient,
		Temperature: config.AppConfig.LLMTemperature,
		MaxTokens:   config.AppConfig.LLMMaxTokens,
		LLMTimeout:  config.LLMTimeout(),
	}

	chatHandler := handlers.NewChatHandler(chatService, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		HandleChat:   chatHandler.HandleChat,
		ResetSession: chatHandler.ResetSession,
		Health:       handlers.HealthHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
