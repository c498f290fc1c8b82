package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gentrack/internal/database"
	"gentrack/internal/dispatch"
	"gentrack/internal/logging"
	"gentrack/internal/repository"
	"gentrack/internal/service"
	"gentrack/pkg/response"
)

func main() {
	// Optional; environment variables still apply without it.
	_ = godotenv.Load(".env")

	logger, err := logging.Init(logging.ConfigFromEnv())
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	path, err := database.DefaultPath()
	if err != nil {
		logger.Fatal("resolve store path", zap.Error(err))
	}

	store, err := database.Open(path, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	logger.Info("store open", zap.String("path", store.Path()))

	// Set up dependencies (Repository -> Service -> Dispatcher)
	accountRepo := repository.NewAccountRepository(store)
	generatorRepo := repository.NewGeneratorRepository(store)
	serviceRepo := repository.NewServiceRecordRepository(store)
	partRepo := repository.NewPartRepository(store)
	auditRepo := repository.NewAuditRepository(store)

	auditService := service.NewAuditService(auditRepo, logger)
	authService := service.NewAuthService(accountRepo, auditService, logger)
	accountService := service.NewAccountService(accountRepo, auditService, authService)
	generatorService := service.NewGeneratorService(generatorRepo, auditService, authService)
	maintenanceService := service.NewMaintenanceService(serviceRepo, generatorRepo, auditService, authService)
	partService := service.NewPartService(partRepo, auditService, authService)
	bootstrapService := service.NewBootstrapService(store, accountRepo, logger)

	ctx := context.Background()
	if err := bootstrapService.EnsureDefaultAccounts(ctx); err != nil {
		logger.Fatal("ensure default accounts", zap.Error(err))
	}
	if err := bootstrapService.SeedIfEmpty(ctx); err != nil {
		logger.Fatal("seed store", zap.Error(err))
	}

	dispatcher := dispatch.New(
		store,
		authService,
		accountService,
		generatorService,
		maintenanceService,
		partService,
		auditService,
		bootstrapService,
	)

	logger.Info("ready")

	// Serve the embedding shell: one JSON request per line on stdin, one
	// response envelope per line on stdout. EOF or a signal ends the run.
	done := make(chan struct{})
	go serve(ctx, dispatcher, logger, done)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-done:
	}

	logger.Info("shutting down")
	auditService.Close()
	if err := store.Close(); err != nil {
		logger.Warn("close store", zap.Error(err))
	}
}

func serve(ctx context.Context, dispatcher *dispatch.Dispatcher, logger *zap.Logger, done chan<- struct{}) {
	defer close(done)

	out := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req dispatch.Request
		if err := json.Unmarshal(line, &req); err != nil {
			_ = out.Encode(response.Error("malformed request: " + err.Error()))
			continue
		}
		if err := out.Encode(dispatcher.Dispatch(ctx, req)); err != nil {
			logger.Warn("write response", zap.Error(err))
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("read request stream", zap.Error(err))
	}
}
