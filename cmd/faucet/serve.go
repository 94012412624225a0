package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/layer-3/faucet/adapters/chain"
	"github.com/layer-3/faucet/adapters/events"
	"github.com/layer-3/faucet/adapters/store"
	"github.com/layer-3/faucet/adapters/tokenizer"
	"github.com/layer-3/faucet/adapters/verifier"
	"github.com/layer-3/faucet/config"
	"github.com/layer-3/faucet/internal/log"
	"github.com/layer-3/faucet/ports"
	"github.com/layer-3/faucet/service"
	transport "github.com/layer-3/faucet/transport/http"
)

func newServeCmd() (*cobra.Command, error) {
	v, err := config.NewViper()
	if err != nil {
		return nil, err
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the faucet HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile := v.GetString(config.KeyEnvFile)
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log.SetLevel(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	return cmd, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	tok, err := tokenizer.NewJWTTokenizer([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return err
	}

	challengeStore, publisher, closeInfra, err := setupInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeInfra()

	eventPub := events.NewWatermillPublisher(publisher)

	key, err := chain.ParsePrivateKey(cfg.Chain.PrivateKey)
	if err != nil {
		return err
	}
	ethClient, err := ethclient.DialContext(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer ethClient.Close()

	faucetContract, err := chain.NewFaucetContract(ethClient, cfg.Chain.ContractAddress, key, cfg.Chain.ChainID)
	if err != nil {
		return err
	}

	authService := service.NewAuthService(tok, challengeStore, verifier.NewPersonalSignVerifier(), eventPub, service.AuthOptions{
		Domain:       cfg.Auth.Domain,
		URI:          cfg.Auth.URI,
		Statement:    cfg.Auth.Statement,
		Version:      cfg.Auth.Version,
		ChainID:      cfg.Chain.ChainID,
		ChallengeTTL: cfg.Auth.ChallengeTTL,
		SessionTTL:   cfg.Auth.SessionTTL,
	})
	faucetService := service.NewFaucetService(faucetContract, eventPub, cfg.Chain.ChainID, cfg.Chain.NetworkName)

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           transport.SetupRouter(authService, faucetService),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Claims wait for the transaction to be mined.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return authService.RunSweeper(gctx, cfg.Auth.SweepInterval)
	})
	g.Go(func() error {
		log.Info(gctx).
			Str("addr", server.Addr).
			Str("contract", faucetContract.ContractAddress()).
			Int64("chain_id", cfg.Chain.ChainID).
			Msg("faucet server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// setupInfra picks Redis backed challenge storage and events when REDIS_URL
// is set, and in-process ones otherwise.
func setupInfra(ctx context.Context, cfg config.Config) (ports.ChallengeStore, message.Publisher, func(), error) {
	logger := log.NewWatermillAdapter(log.Logger())

	if cfg.RedisURL == "" {
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)
		closeFn := func() { _ = pubSub.Close() }
		return store.NewMemoryStore(), pubSub, closeFn, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		logger,
	)
	if err != nil {
		_ = redisClient.Close()
		return nil, nil, nil, fmt.Errorf("failed to create Redis publisher: %w", err)
	}

	closeFn := func() {
		_ = publisher.Close()
		_ = redisClient.Close()
	}
	return store.NewRedisStore(redisClient, cfg.Auth.ChallengeTTL, cfg.Auth.SweepInterval), publisher, closeFn, nil
}
