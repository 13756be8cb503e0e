package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ishchuktaras/wallet-explorer/internal/client"
	"github.com/ishchuktaras/wallet-explorer/internal/config"
	"github.com/ishchuktaras/wallet-explorer/internal/restapi"
	"github.com/ishchuktaras/wallet-explorer/internal/service"
	"github.com/ishchuktaras/wallet-explorer/internal/storage"
	"github.com/ishchuktaras/wallet-explorer/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Logrus covers startup until the zap logger is configured from the
	// loaded config.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	// Optional .env keeps the project credential out of the YAML file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to load .env file: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := newZapLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	kv, err := storage.NewFileKeyValueStore(cfg.Storage.Path)
	if err != nil {
		zapLogger.Fatal("Failed to initialize key-value store", zap.Error(err))
	}
	recentStore := storage.NewRecentQueryStore(kv, zapLogger)
	preferences := storage.NewPreferenceStore(kv)

	blockfrostTimeout := time.Duration(cfg.Blockfrost.RequestTimeoutMillis) * time.Millisecond
	indexerClient := client.NewBlockfrostClient(cfg.Blockfrost.BaseURL, cfg.Blockfrost.ProjectID, blockfrostTimeout, zapLogger)
	zapLogger.Info("Blockfrost client initialized", zap.String("baseURL", cfg.Blockfrost.BaseURL))

	coinGeckoTimeout := time.Duration(cfg.CoinGecko.RequestTimeoutMillis) * time.Millisecond
	priceClient := client.NewCoinGeckoClient(cfg.CoinGecko.BaseURL, coinGeckoTimeout, zapLogger)
	priceService := service.NewPriceService(
		priceClient,
		time.Duration(cfg.Cache.PriceTTLMinutes)*time.Minute,
		time.Duration(cfg.Cache.CleanupMinutes)*time.Minute,
		zapLogger,
	)
	zapLogger.Info("CoinGecko price service initialized")

	walletService := service.NewWalletService(indexerClient, priceService, recentStore, cfg, zapLogger)
	zapLogger.Info("WalletService initialized")

	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))
	router.Use(restapi.ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	handler := restapi.NewWalletHandler(walletService, recentStore, preferences, zapLogger)
	restapi.SetupRouter(router, handler)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}

func newZapLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(parsed)
	return zapCfg.Build()
}
