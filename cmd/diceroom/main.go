package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/diceroom/internal/common/uuid"
	"github.com/KirkDiggler/diceroom/internal/config"
	"github.com/KirkDiggler/diceroom/internal/dice"
	"github.com/KirkDiggler/diceroom/internal/handlers/discord"
	"github.com/KirkDiggler/diceroom/internal/handlers/web"
	sessionRepo "github.com/KirkDiggler/diceroom/internal/repositories/session"
	"github.com/KirkDiggler/diceroom/internal/services/messaging"
	"github.com/KirkDiggler/diceroom/internal/services/roll"
	"github.com/KirkDiggler/diceroom/internal/services/session"
	"github.com/KirkDiggler/diceroom/internal/services/synchronizer"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	uuidGenerator := uuid.New()
	clock := clockwork.NewRealClock()

	// Initialize repositories
	repo, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient:   redisClient,
		UUIDGenerator: uuidGenerator,
	})
	if err != nil {
		log.Fatal().Err(err).Str("redis_addr", cfg.RedisAddr).Msg("failed to create session repository")
	}

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create messaging service")
	}

	// The Discord session is shared by the bot and the roll announcer
	var discordSession *discordgo.Session
	var notifier roll.Notifier
	if cfg.DiscordEnabled() {
		discordSession, err = discord.NewSession(cfg.Discord.Token)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create discord session")
		}

		if cfg.Discord.ChannelID != "" {
			notifier, err = discord.NewAnnouncer(&discord.AnnouncerConfig{
				Sender:           discordSession,
				ChannelID:        cfg.Discord.ChannelID,
				MessagingService: messagingSvc,
			})
			if err != nil {
				log.Fatal().Err(err).Msg("failed to create discord announcer")
			}
		}
	}

	sessionSvc, err := session.New(&session.Config{
		Repository:       repo,
		Clock:            clock,
		MaxWriteAttempts: cfg.MaxWriteAttempts,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session service")
	}

	rollSvc, err := roll.New(&roll.Config{
		Repository:       repo,
		DiceRoller:       dice.New(&dice.Config{}),
		Clock:            clock,
		UUIDGenerator:    uuidGenerator,
		Notifier:         notifier,
		MaxDice:          cfg.MaxDice,
		MaxWriteAttempts: cfg.MaxWriteAttempts,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create roll service")
	}

	syncSvc, err := synchronizer.New(&synchronizer.Config{
		Repository: repo,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create synchronizer")
	}

	handler, err := web.New(&web.Config{
		SessionService:   sessionSvc,
		RollService:      rollSvc,
		Synchronizer:     syncSvc,
		MessagingService: messagingSvc,
		HealthCheck: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
		AllowedOrigins: cfg.CORSOrigins,
		Socket:         web.DefaultSocketConfig(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create web handler")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.NewRouter(log.Logger, handler),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.Env).Msg("starting diceroom server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if discordSession != nil {
		bot, err := discord.New(&discord.Config{
			Token:            cfg.Discord.Token,
			ApplicationID:    cfg.Discord.ApplicationID,
			GuildID:          cfg.Discord.GuildID,
			Session:          discordSession,
			SessionService:   sessionSvc,
			RollService:      rollSvc,
			MessagingService: messagingSvc,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create discord bot")
		}

		g.Go(func() error {
			if err := bot.Start(); err != nil {
				return err
			}

			<-gctx.Done()
			if err := bot.Stop(); err != nil {
				log.Warn().Err(err).Msg("error stopping discord bot")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}

	log.Info().Msg("server stopped")
}

func setupLogger(cfg *config.Config) {
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
