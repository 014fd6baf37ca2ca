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

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasks-api/internal/auth"
	"github.com/BuzzLyutic/tasks-api/internal/config"
	"github.com/BuzzLyutic/tasks-api/internal/handler"
	"github.com/BuzzLyutic/tasks-api/internal/model"
	"github.com/BuzzLyutic/tasks-api/internal/repo"
	"github.com/BuzzLyutic/tasks-api/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasks-api",
		Usage: "In-memory tasks HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
			&cli.StringSliceFlag{
				Name:  "api-key",
				Usage: "Accepted API key (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "no-seed",
				Usage: "Start with an empty store",
			},
			&cli.BoolFlag{
				Name:  "list-page-meta",
				Usage: "Include pagina/limite in list responses",
			},
		},
		Action: run,
	}
}

func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.Load()
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return cfg, err
		}
	}

	// Флаги перекрывают и окружение, и файл
	if cmd.IsSet("port") {
		cfg.Port = cmd.String("port")
	}
	if cmd.IsSet("api-key") {
		cfg.APIKeys = cmd.StringSlice("api-key")
	}
	if cmd.Bool("no-seed") {
		cfg.SeedTasks = false
	}
	if cmd.Bool("list-page-meta") {
		cfg.ListPageMeta = true
	}
	return cfg, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cmd *cli.Command) error {
	// Подключаем логгер
	logger, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	// Загрузка конфигурации
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(cfg.APIKeys) == 0 {
		return errors.New("no API keys configured")
	}

	var seed []model.Task
	if cfg.SeedTasks {
		seed = repo.SampleTasks(time.Now())
	}
	taskRepo := repo.NewTaskRepo(time.Now, seed...)
	taskService := service.NewTaskService(taskRepo)
	taskHandler := handler.NewTaskHandler(taskService, logger, handler.Options{
		MaxBodyBytes: cfg.MaxBodyBytes,
		ListPageMeta: cfg.ListPageMeta,
	})
	gate := auth.NewGate(cfg.APIKeys, logger)

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(taskHandler, gate, logger, cfg.RequestTimeout),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr), zap.Int("tasks", len(seed)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped successfully!")
	return nil
}
