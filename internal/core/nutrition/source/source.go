package source

import (
	"context"

	"meal-compiler/internal/core/nutrition"
)

// Hit 搜尋結果中的一筆候選
type Hit struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// FoodSource 食品成分資料來源。依優先序串成回退鏈：
// 本地資料庫 → 遠端來源 A → 遠端來源 B。
// 任何錯誤對解析器而言等同「此來源無結果」，不重試。
type FoodSource interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]Hit, error)
	GetRecord(ctx context.Context, id string) (*nutrition.FoodRecord, error)
}
