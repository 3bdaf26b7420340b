package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tvminh/blockflow/server/internal/handler"
)

type Config struct {
	BlockHandler *handler.BlockHandler
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.Default()

	api := router.Group("/v1/")
	registerBlockRoutes(api, cfg.BlockHandler)

	return router
}
