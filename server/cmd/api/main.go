package main

import (
	"fmt"
	"log"

	"github.com/tvminh/blockflow/server/config"
	"github.com/tvminh/blockflow/server/internal/handler"
	"github.com/tvminh/blockflow/server/internal/repository"
	"github.com/tvminh/blockflow/server/internal/router"
	"github.com/tvminh/blockflow/server/internal/service"
	"gorm.io/driver/clickhouse"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	db, err := gorm.Open(clickhouse.Open(cfg.ClickHouseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	blockRepo := repository.NewGormBlockRepository(db)
	blockService := service.NewBlocksService(blockRepo)
	blockHandler := handler.NewBlockHandler(blockService)

	routerConfig := &router.Config{
		BlockHandler: blockHandler,
	}

	router := router.NewRouter(routerConfig)

	router.Run(fmt.Sprintf(":%s", cfg.ServerPort))
}
