package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cpr-quiz/internal/assistant"
	"cpr-quiz/internal/auth"
	"cpr-quiz/internal/config"
	"cpr-quiz/internal/httpapi"
	"cpr-quiz/internal/quiz"
	"cpr-quiz/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	bank, err := quiz.LoadBank(cfg.QuestionsPath)
	if err != nil {
		return err
	}
	log.Info("question bank loaded", "questions", bank.Len())

	authService := auth.NewService(db, db, cfg.SecretKey, cfg.SessionTTL)
	quizService := quiz.NewService(bank, db)
	assistantClient := assistant.NewClient(
		&http.Client{Timeout: cfg.AssistantTimeout},
		cfg.AssistantBaseURL,
		cfg.AssistantAPIKey,
		cfg.AssistantModel,
	)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(authService, quizService, assistantClient, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("cpr-quiz listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
