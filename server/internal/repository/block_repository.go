package repository

import (
	"log"

	"github.com/tvminh/blockflow/server/internal/model"
	"gorm.io/gorm"
)

type BlockRepository interface {
	GetLatestBlocks(symbol string, limit int) []model.Block
	GetBlocksCount(symbol string) int64
	GetLatestBlocksGroupBySymbols(symbols []string, limit int) map[string][]model.Block
	GetBlockCountGroupBySymbol() map[string]int
	GetLatestSummaries(symbol string, limit int) []model.Summary
}

type gormBlockRepository struct {
	db *gorm.DB
}

func NewGormBlockRepository(db *gorm.DB) BlockRepository {
	return &gormBlockRepository{db: db}
}

func (gbr *gormBlockRepository) GetLatestBlocks(symbol string, limit int) []model.Block {
	var blocks []model.Block
	query := gbr.db.Order("block_end_time desc").Limit(limit)
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if err := query.Find(&blocks).Error; err != nil {
		log.Printf("Error for query: %v", err)
		return []model.Block{}
	}
	return blocks
}

func (gbr *gormBlockRepository) GetBlocksCount(symbol string) int64 {
	var count int64
	query := gbr.db.Model(&model.Block{})
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if err := query.Count(&count).Error; err != nil {
		log.Printf("Error for query: %v", err)
		return 0
	}
	return count
}

func (gbr *gormBlockRepository) GetLatestBlocksGroupBySymbols(symbols []string, limit int) map[string][]model.Block {
	subQuery := gbr.db.Model(&model.Block{}).
		Select("*, ROW_NUMBER() OVER (PARTITION BY symbol ORDER BY block_end_time DESC) as rn").
		Where("symbol IN (?)", symbols)

	var flatBlocks []model.Block
	err := gbr.db.Table("(?) as ranked_blocks", subQuery).
		Where("rn <= ?", limit).
		Order("symbol, block_end_time DESC").
		Find(&flatBlocks).Error

	if err != nil {
		return make(map[string][]model.Block)
	}

	results := make(map[string][]model.Block)
	for _, b := range flatBlocks {
		results[b.Symbol] = append(results[b.Symbol], b)
	}

	return results
}

func (gbr *gormBlockRepository) GetBlockCountGroupBySymbol() map[string]int {
	type SymbolCount struct {
		Symbol string
		Count  int
	}
	var symbolCountResult []SymbolCount
	err := gbr.db.Model(&model.Block{}).Select("symbol, count(*) as count").Group("symbol").Scan(&symbolCountResult).Error
	if err != nil {
		log.Printf("Error for query: %v", err)
		return make(map[string]int)
	}
	result := make(map[string]int, len(symbolCountResult))
	for _, r := range symbolCountResult {
		result[r.Symbol] = r.Count
	}
	return result
}

func (gbr *gormBlockRepository) GetLatestSummaries(symbol string, limit int) []model.Summary {
	var summaries []model.Summary
	query := gbr.db.Order("window_start desc").Limit(limit)
	if symbol != "" {
		query = query.Where("symbol = ?", symbol)
	}
	if err := query.Find(&summaries).Error; err != nil {
		log.Printf("Error for query: %v", err)
		return []model.Summary{}
	}
	return summaries
}
