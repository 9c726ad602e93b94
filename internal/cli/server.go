package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moritani/accountd/internal/auth"
	"github.com/moritani/accountd/internal/config"
	"github.com/moritani/accountd/internal/server"
	"github.com/moritani/accountd/internal/server/handlers"
	"github.com/moritani/accountd/internal/storage"
)

var configFile string

// ServerCmd represents the server command
var ServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the account service HTTP server",
	Long:  `Start the HTTP server that provides the user account REST API: signup, profile lookup and update, and account closure, guarded by HTTP Basic Authentication.`,
	RunE:  runServer,
}

func init() {
	ServerCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (optional)")
	ServerCmd.Flags().Int("port", 0, "Listen port (overrides config)")
	ServerCmd.Flags().String("storage-uri", "", "Storage URI (overrides config)")
	ServerCmd.Flags().String("storage-token", "", "Storage credentials token (overrides config)")
	ServerCmd.Flags().String("seed-file", "", "YAML file of accounts to preload (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Build viper with defaults + env, then layer the config file and flags
	v := config.NewViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if f := cmd.Flags().Lookup("port"); f.Changed {
		v.Set("server.port", f.Value.String())
	}
	if f := cmd.Flags().Lookup("storage-uri"); f.Changed {
		v.Set("storage.uri", f.Value.String())
	}
	if f := cmd.Flags().Lookup("storage-token"); f.Changed {
		v.Set("storage.token", f.Value.String())
	}
	if f := cmd.Flags().Lookup("seed-file"); f.Changed {
		v.Set("seed.file", f.Value.String())
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Create logger
	logger := server.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	logger.Info("Server starting",
		"port", cfg.Server.Port,
		"config_file", configFile,
		"storage_uri", cfg.Storage.URI,
		"storage_token", cfg.MaskToken(),
		"seed_file", cfg.Seed.File)

	// Initialize storage
	uri, err := cfg.GetParsedStorageURI()
	if err != nil {
		return fmt.Errorf("invalid storage URI: %w", err)
	}

	store, err := storage.NewStorage(uri, cfg.Storage.Token, logger)
	if err != nil {
		logger.Error("Failed to initialize storage",
			"error", err,
			"storage_uri", cfg.Storage.URI)
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Preload seed accounts if configured
	if cfg.Seed.File != "" {
		seedUsers, err := storage.LoadSeedUsers(cfg.Seed.File)
		if err != nil {
			logger.Error("Failed to load seed file",
				"error", err,
				"seed_file", cfg.Seed.File)
			return fmt.Errorf("failed to load seed file: %w", err)
		}
		if err := storage.ApplySeed(context.Background(), store, seedUsers, logger); err != nil {
			return fmt.Errorf("failed to apply seed accounts: %w", err)
		}
	}

	// The authenticator resolves identities against the same user store
	authenticator := auth.NewBasicAuth(store, logger)

	// Create server
	srv := server.NewServer(cfg, logger, store, authenticator)

	// Create all handlers
	signupHandler := handlers.NewSignupHandler(store, logger)
	userHandler := handlers.NewUserHandler(store, authenticator, logger)
	closeHandler := handlers.NewCloseHandler(store, authenticator, logger)
	healthHandler := handlers.NewHealthHandler(store, logger)

	srv.SetHandlers(server.HandlerSet{
		Signup:     signupHandler.Signup,
		GetUser:    userHandler.GetUser,
		UpdateUser: userHandler.UpdateUser,
		Close:      closeHandler.Close,
		Health:     healthHandler.GetHealth,
		NotFound:   handlers.NotFound,
	})

	logger.Info("Server ready to accept connections",
		"address", fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port))

	if err := srv.Start(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}

	return nil
}
