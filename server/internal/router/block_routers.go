package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tvminh/blockflow/server/internal/handler"
)

func registerBlockRoutes(router *gin.RouterGroup, blockHandler *handler.BlockHandler) {
	blocks := router.Group("/blocks")
	{
		blocks.GET("/latest", blockHandler.GetLatest)
		blocks.GET("/count", blockHandler.GetCount)
	}

	summaries := router.Group("/summaries")
	{
		summaries.GET("/latest", blockHandler.GetSummaries)
	}
}
