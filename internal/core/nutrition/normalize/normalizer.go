package normalize

import (
	"context"
	"regexp"
	"strings"
)

// Lookup 一次標準化產生的查詢候選，依序嘗試直到命中
type Lookup struct {
	Term     string // 標準化後的搜尋詞
	DirectID string // 別名表直接指定的來源紀錄 ID（可為空）
	Cooked   bool   // 搜尋詞帶有熟食狀態（守門判斷乾濕比對錯誤用）
}

var (
	// 名稱開頭夾帶的數量/單位殘片，例如 "200g chicken breast"
	leadingQuantityPattern = regexp.MustCompile(`^\d+(\.\d+)?\s*(g|kg|oz|lb|lbs|ml|l|cup|cups|tbsp|tsp|piece|pieces|slice|slices)?\s+`)
	// 保留字母、數字、空白與連字號，其餘視為標點去除
	punctuationPattern = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// 熟食狀態關鍵字
var cookedKeywords = []string{"cooked", "boiled", "steamed", "roasted", "grilled"}

// Normalizer 食材名稱標準化器。純函數 + 唯讀別名快取，無網路存取。
type Normalizer struct {
	aliases AliasCache
}

// New 創建標準化器
func New(aliases AliasCache) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// Normalize 把自由文字食材名稱整理成一或多個查詢候選。
// 複合名稱（" + "、" and "）拆成獨立子查詢。
func (n *Normalizer) Normalize(ctx context.Context, raw string) []Lookup {
	cleaned := Clean(raw)
	if cleaned == "" {
		return nil
	}

	parts := splitCompound(cleaned)
	lookups := make([]Lookup, 0, len(parts))
	for _, part := range parts {
		lookup := Lookup{Term: part, Cooked: isCooked(part)}
		if n.aliases != nil {
			if alias, ok := n.aliases.Lookup(ctx, part); ok {
				lookup.Term = alias.CanonicalName
				lookup.DirectID = alias.DirectSourceID
				lookup.Cooked = lookup.Cooked || isCooked(alias.CanonicalName)
			}
		}
		lookups = append(lookups, lookup)
	}
	return lookups
}

// Clean 去標點、去開頭數量殘片、壓縮空白並轉小寫
func Clean(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = punctuationPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = leadingQuantityPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// splitCompound 拆解複合食材名稱
func splitCompound(s string) []string {
	for _, sep := range []string{" + ", " and "} {
		if strings.Contains(s, sep) {
			var out []string
			for _, part := range strings.Split(s, sep) {
				part = strings.TrimSpace(part)
				if part != "" {
					out = append(out, part)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return []string{s}
}

// isCooked 判斷搜尋詞是否帶有熟食狀態
func isCooked(term string) bool {
	for _, kw := range cookedKeywords {
		if strings.Contains(term, kw) {
			return true
		}
	}
	return false
}
