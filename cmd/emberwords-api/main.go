package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/emberwords/backend/internal/config"
	"github.com/emberwords/backend/internal/generator"
	"github.com/emberwords/backend/internal/geo"
	"github.com/emberwords/backend/internal/gifts"
	"github.com/emberwords/backend/internal/logging"
	"github.com/emberwords/backend/internal/media"
	"github.com/emberwords/backend/internal/memories"
	"github.com/emberwords/backend/internal/persons"
	"github.com/emberwords/backend/internal/server"
	"github.com/emberwords/backend/internal/store"
	"github.com/emberwords/backend/internal/words"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "emberwords-api",
		Short: "Emberwords word card backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("store-backend", defaults.GetString("store.backend"), "Document store backend (firestore, sqlite, memory)")
	cmd.PersistentFlags().String("firestore-project-id", defaults.GetString("firestore.project_id"), "Firestore project ID")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("gemini-model", defaults.GetString("gemini.model"), "Gemini model name")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "store.backend", "store-backend")
	bindFlag(cmd, "firestore.project_id", "firestore-project-id")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "gemini.model", "gemini-model")
	bindFlag(cmd, "log.level", "log-level")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func openStore(ctx context.Context, appConfig config.AppConfig, logger *zap.Logger) (store.Store, error) {
	switch appConfig.StoreBackend {
	case config.StoreBackendFirestore:
		return store.OpenFirestore(ctx, appConfig.FirestoreProjectID, logger)
	case config.StoreBackendSQLite:
		return store.OpenSQLite(appConfig.DatabasePath, logger)
	default:
		return store.NewMemoryStore(), nil
	}
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	backend, err := openStore(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	wordsService, err := words.NewService(words.ServiceConfig{Store: backend, Logger: logger})
	if err != nil {
		return err
	}
	memoriesService, err := memories.NewService(memories.ServiceConfig{
		Store:      backend,
		Clock:      time.Now,
		IDProvider: memories.NewUUIDProvider(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	personsService, err := persons.NewService(persons.ServiceConfig{
		Store:  backend,
		Clock:  time.Now,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	giftsService, err := gifts.NewService(gifts.ServiceConfig{
		Store:  backend,
		Clock:  time.Now,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	deps := server.Dependencies{
		Words:    wordsService,
		Memories: memoriesService,
		Persons:  personsService,
		Gifts:    giftsService,
		Geocoder: geo.NewGeocoder(geo.GeocoderConfig{
			BaseURL:   appConfig.GeocodeBaseURL,
			UserAgent: appConfig.GeocodeUserAgent,
			Logger:    logger,
		}),
		Clock:  time.Now,
		Logger: logger,
	}

	if appConfig.GenerationEnabled() {
		model, err := generator.NewGenAIModel(ctx, generator.GenAIModelConfig{
			APIKey:    appConfig.GeminiAPIKey,
			ModelName: appConfig.GeminiModel,
		})
		if err != nil {
			return err
		}
		generatorService, err := generator.NewService(generator.ServiceConfig{
			Model:  model,
			Words:  wordsService,
			Clock:  time.Now,
			Logger: logger,
		})
		if err != nil {
			return err
		}
		deps.Generator = generatorService
	} else {
		logger.Warn("gemini api key not configured, generation routes disabled")
	}

	if appConfig.MediaEnabled() {
		storage, err := media.NewStorage(ctx, media.StorageConfig{
			Region:          appConfig.S3Region,
			AccessKeyID:     appConfig.S3AccessKeyID,
			SecretAccessKey: appConfig.S3SecretAccessKey,
			Endpoint:        appConfig.S3Endpoint,
			Bucket:          appConfig.S3Bucket,
			PublicBaseURL:   appConfig.S3PublicBaseURL,
			Logger:          logger,
		})
		if err != nil {
			return err
		}
		deps.Media = storage
	} else {
		logger.Warn("object storage not configured, media routes disabled")
	}

	handler, err := server.NewHTTPHandler(deps)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("address", appConfig.HTTPAddress),
			zap.String("store", appConfig.StoreBackend))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
