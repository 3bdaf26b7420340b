package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tvminh/blockflow/server/internal/service"
)

type BlockHandler struct {
	blockService *service.BlocksService
}

func NewBlockHandler(service *service.BlocksService) *BlockHandler {
	return &BlockHandler{
		blockService: service,
	}
}

func (h *BlockHandler) GetLatest(c *gin.Context) {
	symbols := c.Query("symbols")
	if symbols != "" {
		c.JSON(http.StatusOK, h.blockService.GetLatestBlocksPerSymbol(strings.Split(symbols, ",")))
		return
	}
	blocks := h.blockService.GetLatestBlocks(c.Query("symbol"))
	c.JSON(http.StatusOK, blocks)
}

func (h *BlockHandler) GetCount(c *gin.Context) {
	var message any
	symbol := c.Query("symbol")
	if symbol == "all" {
		message = h.blockService.GetCountBlocksPerSymbol()
	} else {
		count := h.blockService.GetCountBlocks(symbol)
		if symbol != "" {
			message = gin.H{symbol: count}
		} else {
			message = gin.H{"count": count}
		}
	}
	c.JSON(http.StatusOK, message)
}

func (h *BlockHandler) GetSummaries(c *gin.Context) {
	summaries := h.blockService.GetLatestSummaries(c.Query("symbol"))
	c.JSON(http.StatusOK, summaries)
}
