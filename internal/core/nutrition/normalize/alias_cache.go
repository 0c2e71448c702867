package normalize

import (
	"context"
	"strings"
)

// Alias 別名表的一筆資料
type Alias struct {
	CanonicalName  string `json:"canonical_name"`
	DirectSourceID string `json:"direct_source_id,omitempty"`
}

// AliasCache 食材別名快取，呼叫期間唯讀
type AliasCache interface {
	Lookup(ctx context.Context, name string) (Alias, bool)
}

// StaticAliasCache 內建別名表。也是 redis 不可用時的回退。
type StaticAliasCache struct {
	table map[string]Alias
}

// 常見的口語名 → 標準搜尋詞。直接命中可跳過搜尋的來源 ID 留空，
// 由部署方透過 redis 別名表補上。
var builtinAliases = map[string]Alias{
	"scallion":        {CanonicalName: "green onion raw"},
	"scallions":       {CanonicalName: "green onion raw"},
	"spring onion":    {CanonicalName: "green onion raw"},
	"chicken":         {CanonicalName: "chicken breast skinless raw"},
	"chicken breast":  {CanonicalName: "chicken breast skinless raw"},
	"ground beef":     {CanonicalName: "beef ground 85 lean raw"},
	"mince":           {CanonicalName: "beef ground 85 lean raw"},
	"rice":            {CanonicalName: "white rice cooked"},
	"brown rice":      {CanonicalName: "brown rice cooked"},
	"pasta":           {CanonicalName: "pasta cooked"},
	"noodles":         {CanonicalName: "pasta cooked"},
	"oats":            {CanonicalName: "rolled oats dry"},
	"oatmeal":         {CanonicalName: "rolled oats dry"},
	"yoghurt":         {CanonicalName: "greek yogurt plain"},
	"greek yoghurt":   {CanonicalName: "greek yogurt plain"},
	"evoo":            {CanonicalName: "olive oil"},
	"extra virgin olive oil": {CanonicalName: "olive oil"},
	"garbanzo beans":  {CanonicalName: "chickpeas cooked"},
	"aubergine":       {CanonicalName: "eggplant raw"},
	"courgette":       {CanonicalName: "zucchini raw"},
	"capsicum":        {CanonicalName: "bell pepper raw"},
	"coriander":       {CanonicalName: "cilantro raw"},
	"rocket":          {CanonicalName: "arugula raw"},
	"prawns":          {CanonicalName: "shrimp raw"},
	"bacon rashers":   {CanonicalName: "bacon raw"},
	"sweetcorn":       {CanonicalName: "corn kernels cooked"},
}

// NewStaticAliasCache 創建內建別名快取
func NewStaticAliasCache() *StaticAliasCache {
	return &StaticAliasCache{table: builtinAliases}
}

// Lookup 大小寫不敏感的精確比對
func (c *StaticAliasCache) Lookup(_ context.Context, name string) (Alias, bool) {
	alias, ok := c.table[strings.ToLower(strings.TrimSpace(name))]
	return alias, ok
}
