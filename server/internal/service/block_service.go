package service

import (
	"github.com/tvminh/blockflow/server/internal/model"
	"github.com/tvminh/blockflow/server/internal/repository"
)

type BlocksService struct {
	repo repository.BlockRepository
}

func NewBlocksService(repo repository.BlockRepository) *BlocksService {
	return &BlocksService{
		repo: repo,
	}
}

func (bs *BlocksService) GetLatestBlocks(symbol string) []model.Block {
	return bs.repo.GetLatestBlocks(symbol, 10)
}

func (bs *BlocksService) GetCountBlocks(symbol string) int64 {
	return bs.repo.GetBlocksCount(symbol)
}

func (bs *BlocksService) GetCountBlocksPerSymbol() map[string]int {
	return bs.repo.GetBlockCountGroupBySymbol()
}

func (bs *BlocksService) GetLatestBlocksPerSymbol(symbols []string) map[string][]model.Block {
	return bs.repo.GetLatestBlocksGroupBySymbols(symbols, 10)
}

func (bs *BlocksService) GetLatestSummaries(symbol string) []model.Summary {
	return bs.repo.GetLatestSummaries(symbol, 10)
}
