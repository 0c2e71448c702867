package off

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

// kJ → kcal 換算係數
const kjPerKcal = 4.184

// Client Open Food Facts 客戶端，回退鏈的最後一站
type Client struct {
	config *config.OFFConfig
	client *resty.Client
}

// NewClient 創建 Open Food Facts 客戶端
func NewClient(cfg *config.OFFConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "meal-compiler/1.0")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Name 來源名稱
func (c *Client) Name() string {
	return "openfoodfacts"
}

// Search 文字搜尋產品
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]source.Hit, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"search_terms": query,
			"search_simple": "1",
			"action":       "process",
			"json":         "1",
			"page_size":    strconv.Itoa(maxResults),
			"fields":       "code,product_name,generic_name",
		}).
		Get("/cgi/search.pl")

	common.LogSourceCall("openfoodfacts", query, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to search open food facts: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("open food facts search returned status %d", resp.StatusCode())
	}

	var result struct {
		Products []struct {
			Code        string `json:"code"`
			ProductName string `json:"product_name"`
			GenericName string `json:"generic_name"`
		} `json:"products"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse open food facts response: %w", err)
	}

	hits := make([]source.Hit, 0, len(result.Products))
	for _, p := range result.Products {
		if p.Code == "" {
			continue
		}
		name := p.ProductName
		if name == "" {
			name = p.GenericName
		}
		hits = append(hits, source.Hit{ID: p.Code, Description: name})
	}
	return hits, nil
}

// GetRecord 取得產品並把 nutriments（每 100 g 基底）轉成 FoodRecord。
// 熱量優先取 energy-kcal_100g，缺值時用 energy-kj_100g 換算。
func (c *Client) GetRecord(ctx context.Context, id string) (*nutrition.FoodRecord, error) {
	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("fields", "code,product_name,generic_name,nutriments,serving_quantity").
		Get(fmt.Sprintf("/api/v2/product/%s.json", id))

	common.LogSourceCall("openfoodfacts", "product/"+id, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open food facts product %s: %w", id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("open food facts product %s returned status %d", id, resp.StatusCode())
	}

	var result struct {
		Status  int `json:"status"`
		Product struct {
			Code            string             `json:"code"`
			ProductName     string             `json:"product_name"`
			GenericName     string             `json:"generic_name"`
			ServingQuantity float64            `json:"serving_quantity"`
			Nutriments      map[string]float64 `json:"nutriments"`
		} `json:"product"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse open food facts product: %w", err)
	}
	if result.Status != 1 {
		return nil, fmt.Errorf("open food facts product %s not found", id)
	}

	p := result.Product
	name := p.ProductName
	if name == "" {
		name = p.GenericName
	}

	kcal, ok := p.Nutriments["energy-kcal_100g"]
	if !ok {
		if kj, kjOK := p.Nutriments["energy-kj_100g"]; kjOK {
			kcal = kj / kjPerKcal
		} else {
			return nil, fmt.Errorf("open food facts product %s has no energy data", id)
		}
	}

	base := nutrition.Serving{
		AmountValue: 100,
		AmountUnit:  "g",
		Description: "100 g",
		Kcal:        kcal,
		ProteinG:    p.Nutriments["proteins_100g"],
		CarbsG:      p.Nutriments["carbohydrates_100g"],
		FatG:        p.Nutriments["fat_100g"],
	}
	if fiber, fiberOK := p.Nutriments["fiber_100g"]; fiberOK {
		base.FiberG = &fiber
	}

	record := &nutrition.FoodRecord{
		ID:       p.Code,
		Name:     name,
		Servings: []nutrition.Serving{base},
	}

	if p.ServingQuantity > 0 {
		factor := p.ServingQuantity / 100
		serving := nutrition.Serving{
			AmountValue: p.ServingQuantity,
			AmountUnit:  "g",
			Description: fmt.Sprintf("%.0f g serving", p.ServingQuantity),
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
