package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/core/nutrition/source"
	"meal-compiler/internal/infrastructure/config"
	"meal-compiler/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// USDA FoodData Central 的營養素編號
const (
	nutrientEnergyKcal = 1008
	nutrientProtein    = 1003
	nutrientFat        = 1004
	nutrientCarbs      = 1005
	nutrientFiber      = 1079
)

// Client USDA FoodData Central 客戶端，回退鏈的第二站
type Client struct {
	config *config.USDAConfig
	client *resty.Client
}

// NewClient 創建 USDA 客戶端
func NewClient(cfg *config.USDAConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetQueryParam("api_key", cfg.APIKey)

	return &Client{
		config: cfg,
		client: client,
	}
}

// Name 來源名稱
func (c *Client) Name() string {
	return "usda"
}

// Search 搜尋食物，只取 Foundation / SR Legacy 這類通用成分資料
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]source.Hit, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":    query,
			"pageSize": strconv.Itoa(maxResults),
			"dataType": "Foundation,SR Legacy",
		}).
		Get("/v1/foods/search")

	common.LogSourceCall("usda", query, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to search usda: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("usda search returned status %d", resp.StatusCode())
	}

	var result struct {
		Foods []struct {
			FdcID       int64  `json:"fdcId"`
			Description string `json:"description"`
		} `json:"foods"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse usda search response: %w", err)
	}

	hits := make([]source.Hit, 0, len(result.Foods))
	for _, f := range result.Foods {
		hits = append(hits, source.Hit{
			ID:          strconv.FormatInt(f.FdcID, 10),
			Description: f.Description,
		})
	}
	return hits, nil
}

// GetRecord 取得單筆食物。營養值是每 100 g 基底，
// 若紀錄另帶 servingSize 則多回報一種份量。
func (c *Client) GetRecord(ctx context.Context, id string) (*nutrition.FoodRecord, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/v1/food/%s", id))

	common.LogSourceCall("usda", "food/"+id, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch usda food %s: %w", id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("usda food %s returned status %d", id, resp.StatusCode())
	}

	var result struct {
		FdcID         int64   `json:"fdcId"`
		Description   string  `json:"description"`
		ServingSize   float64 `json:"servingSize"`
		ServingUnit   string  `json:"servingSizeUnit"`
		FoodNutrients []struct {
			Nutrient struct {
				ID int64 `json:"id"`
			} `json:"nutrient"`
			Amount float64 `json:"amount"`
		} `json:"foodNutrients"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse usda food response: %w", err)
	}

	base := nutrition.Serving{
		AmountValue: 100,
		AmountUnit:  "g",
		Description: "100 g",
	}
	for _, n := range result.FoodNutrients {
		switch n.Nutrient.ID {
		case nutrientEnergyKcal:
			base.Kcal = n.Amount
		case nutrientProtein:
			base.ProteinG = n.Amount
		case nutrientCarbs:
			base.CarbsG = n.Amount
		case nutrientFat:
			base.FatG = n.Amount
		case nutrientFiber:
			fiber := n.Amount
			base.FiberG = &fiber
		}
	}

	record := &nutrition.FoodRecord{
		ID:       strconv.FormatInt(result.FdcID, 10),
		Name:     result.Description,
		Servings: []nutrition.Serving{base},
	}

	// 附帶的包裝份量換算成等比營養值
	if result.ServingSize > 0 && (result.ServingUnit == "g" || result.ServingUnit == "ml") {
		factor := result.ServingSize / 100
		serving := nutrition.Serving{
			AmountValue: result.ServingSize,
			AmountUnit:  result.ServingUnit,
			Description: fmt.Sprintf("%.0f %s", result.ServingSize, result.ServingUnit),
			Kcal:        base.Kcal * factor,
			ProteinG:    base.ProteinG * factor,
			CarbsG:      base.CarbsG * factor,
			FatG:        base.FatG * factor,
		}
		if base.FiberG != nil {
			fiber := *base.FiberG * factor
			serving.FiberG = &fiber
		}
		record.Servings = append(record.Servings, serving)
	}

	return record, nil
}
