package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Totarae/EasyLink/internal/config"
	"github.com/Totarae/EasyLink/internal/database"
	"github.com/Totarae/EasyLink/internal/handlers"
	"github.com/Totarae/EasyLink/internal/repositories"
	"github.com/Totarae/EasyLink/internal/router"
	"github.com/Totarae/EasyLink/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg := config.NewConfig()

	db, err := openDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Не удалось открыть хранилище", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("Не удалось применить миграции", zap.Error(err))
	}

	linkRepo := repositories.NewLinkRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	maintenanceRepo := repositories.NewMaintenanceRepository(db)

	linkService := service.NewLinkService(linkRepo, categoryRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, logger)
	transferService := service.NewTransferService(linkRepo, categoryRepo, maintenanceRepo, logger)

	handler := handlers.NewHandler(linkService, categoryService, transferService, logger)
	r := router.NewRouter(handler, logger)

	logger.Info("Сервер запущен", zap.String("address", cfg.ServerAddress), zap.String("mode", cfg.Mode))
	if cfg.EnableHTTPS {
		if err := http.ListenAndServeTLS(cfg.ServerAddress, cfg.TLSCertPath, cfg.TLSKeyPath, r); err != nil {
			logger.Fatal("Ошибка при запуске сервера", zap.Error(err))
		}
		return
	}
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logger.Fatal("Ошибка при запуске сервера", zap.Error(err))
	}
}

func openDatabase(cfg *config.Config, logger *zap.Logger) (database.DB, error) {
	if cfg.Mode == config.ModePostgres {
		return database.NewPostgres(context.Background(), cfg.DatabaseDSN, logger)
	}
	return database.NewSQLite(cfg.SQLitePath, logger)
}
