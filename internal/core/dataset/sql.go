package dataset

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipe-recommender/internal/core/recommend"
)

// importBatchSize 每批寫入筆數
const importBatchSize = 500

// RecipeRecord recipes 資料表
type RecipeRecord struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Text       string
	Ingredient string
	Energy     string
	TimeCook   string `gorm:"column:time_cook"`
}

// TableName 資料表名稱
func (RecipeRecord) TableName() string {
	return "recipes"
}

// OpenDB 依 DSN 選擇驅動程式：postgres URL 或 key=value 格式使用 postgres，其餘視為 sqlite 檔案
func OpenDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dataset dsn is empty")
	}

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	var dialector gorm.Dialector
	if isPostgresDSN(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// SQLSource 從資料庫讀取食譜
type SQLSource struct {
	DB      *gorm.DB
	MaxRows int
}

// Rows 依主鍵順序讀取
func (s *SQLSource) Rows(ctx context.Context) ([]recommend.RawRecipeRow, LoadStats, error) {
	var records []RecipeRecord

	query := s.DB.WithContext(ctx).Order("id")
	if s.MaxRows > 0 {
		query = query.Limit(s.MaxRows)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to query recipes: %w", err)
	}

	rows := make([]recommend.RawRecipeRow, len(records))
	for i, r := range records {
		rows[i] = recommend.RawRecipeRow{
			Name:       r.Name,
			Text:       r.Text,
			Ingredient: r.Ingredient,
			Energy:     r.Energy,
			TimeCook:   r.TimeCook,
		}
	}
	return rows, LoadStats{Read: len(rows)}, nil
}

// Import 建立資料表並分批寫入
func (s *SQLSource) Import(ctx context.Context, rows []recommend.RawRecipeRow) (int, error) {
	db := s.DB.WithContext(ctx)
	if err := db.AutoMigrate(&RecipeRecord{}); err != nil {
		return 0, fmt.Errorf("failed to migrate recipes table: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	records := make([]RecipeRecord, len(rows))
	for i, r := range rows {
		records[i] = RecipeRecord{
			Name:       r.Name,
			Text:       r.Text,
			Ingredient: r.Ingredient,
			Energy:     r.Energy,
			TimeCook:   r.TimeCook,
		}
	}

	result := db.CreateInBatches(&records, importBatchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to import recipes: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}

// Close 關閉連線
func (s *SQLSource) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
