package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elpro/internal/app/store/config"
	"elpro/internal/app/store/handler"
	"elpro/internal/app/store/processor"
	"elpro/internal/app/store/repository"
	"elpro/internal/app/store/service"
	"elpro/internal/app/store/util"
	"elpro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("elpro", cfg.LogLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, "elpro", cfg.LogLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	mongoClient, err := connectMongoDB(cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.Mongo.DBName).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.Mongo.DBName)

	// Redis для кеша навигации; без него работаем напрямую из MongoDB
	var navCache util.NavCache
	redisClient, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis, navigation cache disabled")
	} else {
		navCache = redisClient
		defer redisClient.Close()
		logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")
	}

	kafkaProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	imageStore, err := util.NewLocalImageStore(cfg.Images.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize image store")
	}

	jwtManager := util.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenDuration)

	categoryRepo := repository.NewCategoryRepository(db)
	subcategoryRepo := repository.NewSubcategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	bannerRepo := repository.NewBannerRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)

	settingsService := service.NewSettingsService(settingsRepo)
	catalogService := service.NewCatalogService(categoryRepo, subcategoryRepo, productRepo, navCache, imageStore, kafkaProducer)
	productService := service.NewProductService(productRepo, categoryRepo, subcategoryRepo, sectionRepo, imageStore, kafkaProducer)
	sectionService := service.NewSectionService(sectionRepo, productRepo)
	bannerService := service.NewBannerService(bannerRepo, imageStore)
	storefrontService := service.NewStorefrontService(categoryRepo, productRepo, sectionRepo, bannerRepo, settingsService, navCache)
	orderService := service.NewOrderService(orderRepo, productRepo, settingsService, kafkaProducer)
	authService := service.NewAuthService(userRepo, jwtManager)

	// Периодическая сверка перекрестных ссылок каталога
	reconciler := service.NewReconciler(categoryRepo, subcategoryRepo, productRepo, sectionRepo)
	scheduler := processor.NewCronScheduler(reconciler)
	if err := scheduler.Start(context.Background(), cfg.Reconciler.Schedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start reconciler scheduler")
	}
	defer scheduler.Stop()

	authMiddleware := handler.NewAuthMiddleware(jwtManager)
	handlers := &handler.Handlers{
		Catalog:  handler.NewCatalogHandler(catalogService),
		Product:  handler.NewProductHandler(productService),
		Section:  handler.NewSectionHandler(sectionService),
		Banner:   handler.NewBannerHandler(bannerService),
		Settings: handler.NewSettingsHandler(settingsService),
		Order:    handler.NewOrderHandler(orderService),
		User:     handler.NewUserHandler(authService),
		Site:     handler.NewSiteHandler(storefrontService),
		System:   handler.NewSystemHandler(reconciler),
	}
	router := handler.SetupRoutes(handlers, authMiddleware, cfg.CORS.AllowedOrigins, cfg.Images.Dir)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Elpro Store")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Elpro Store...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Elpro Store stopped gracefully")
}

func connectMongoDB(cfg config.MongoConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err = mongo.Connect(ctx, clientOptions)
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pingCancel()

			if err = client.Ping(pingCtx, nil); err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
