package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/AndreyStartsev/heb-tes-project/internal/app"
	"github.com/AndreyStartsev/heb-tes-project/internal/config"
	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
	fileloader "github.com/AndreyStartsev/heb-tes-project/internal/infra/file"
	"github.com/AndreyStartsev/heb-tes-project/internal/infra/memory"
	pgloader "github.com/AndreyStartsev/heb-tes-project/internal/infra/postgres"
	redisinfra "github.com/AndreyStartsev/heb-tes-project/internal/infra/redis"
	transport "github.com/AndreyStartsev/heb-tes-project/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuizLoader
	switch {
	case pool != nil:
		loader = pgloader.NewQuizLoader(pool)
	case cfg.Quiz.Dir != "":
		loader = fileloader.NewQuizLoader(cfg.Quiz.Dir)
	default:
		loader = memory.NewStaticQuizLoader(sampleManifest(), sampleQuizzes())
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var results app.ResultRepository
	if redisClient != nil {
		results = redisinfra.NewResultStore(redisClient, cfg.ResultRetention())
	} else {
		results = memory.NewResultStore(cfg.ResultRetention())
	}

	// Sessions have page-visit lifetime, so they always live in memory.
	sessions := memory.NewSessionStore()
	service := app.NewQuizService(sessions, quizRepo, results, cfg.Rules())
	apiServer := transport.NewServer(service)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleManifest and sampleQuizzes provide a minimal built-in content set for
// running without a quizzes directory or database.
func sampleManifest() []domain.ManifestEntry {
	return []domain.ManifestEntry{
		{ID: "quiz1", Title: "מבחן לדוגמה"},
	}
}

func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz1": {
			ID:         "quiz1",
			Title:      "מבחן לדוגמה",
			Intro:      "<p>בחרו את התשובה הנכונה לכל שאלה.</p>",
			SecretWord: "שמש",
			Blocks: []domain.Block{
				{
					Title: "חלק א",
					Items: []domain.Question{
						{
							ID:   "q1",
							Text: "2 + 2 = ?",
							Options: domain.Options{
								{Key: "a", Text: "3"},
								{Key: "b", Text: "4"},
								{Key: "c", Text: "5"},
							},
							CorrectAnswer: "b",
						},
					},
				},
			},
		},
	}
}
