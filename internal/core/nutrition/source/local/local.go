package local

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/core/nutrition/source"
	"meal-compiler/internal/pkg/common"

	"go.uber.org/zap"
)

// Source 本地 sqlite 食品資料庫，回退鏈的第一站。
// 每筆食物存每 100 g 的營養值，首次開啟時灌入內建種子資料。
type Source struct {
	db *sql.DB
}

// New 開啟（必要時建立）本地食品資料庫
func New(dbPath string) (*Source, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Source{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.seedIfEmpty(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed food table: %w", err)
	}

	return s, nil
}

// Close 關閉資料庫
func (s *Source) Close() error {
	return s.db.Close()
}

func (s *Source) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS foods (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL UNIQUE,
        kcal_per_100g REAL NOT NULL,
        protein_per_100g REAL NOT NULL,
        carbs_per_100g REAL NOT NULL,
        fat_per_100g REAL NOT NULL,
        fiber_per_100g REAL
    );

    CREATE INDEX IF NOT EXISTS idx_foods_name ON foods(name);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// seedIfEmpty 表是空的就灌入內建種子
func (s *Source) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM foods`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count foods: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
        INSERT OR IGNORE INTO foods (name, kcal_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g, fiber_per_100g)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	for _, f := range seedFoods {
		var fiber interface{}
		if f.FiberG >= 0 {
			fiber = f.FiberG
		}
		if _, err := tx.Exec(insert, f.Name, f.Kcal, f.ProteinG, f.CarbsG, f.FatG, fiber); err != nil {
			return fmt.Errorf("failed to insert seed food %q: %w", f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	common.LogInfo("本地食品資料庫已初始化",
		zap.Int("種子筆數", len(seedFoods)),
	)
	return nil
}

// Name 來源名稱
func (s *Source) Name() string {
	return "local"
}

// Search 以名稱關鍵字搜尋。先要求全部詞都命中，一筆都沒有
// 再放寬成只比對第一個詞。
func (s *Source) Search(ctx context.Context, query string, maxResults int) ([]source.Hit, error) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(words) == 0 {
		return nil, nil
	}

	hits, err := s.searchWords(ctx, words, maxResults)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 && len(words) > 1 {
		hits, err = s.searchWords(ctx, words[:1], maxResults)
		if err != nil {
			return nil, err
		}
	}
	return hits, nil
}

func (s *Source) searchWords(ctx context.Context, words []string, maxResults int) ([]source.Hit, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, name FROM foods WHERE 1=1`)
	args := make([]interface{}, 0, len(words)+1)
	for _, w := range words {
		sb.WriteString(` AND name LIKE ?`)
		args = append(args, "%"+w+"%")
	}
	// 名稱越短代表越泛用的基礎食材，排前面
	sb.WriteString(` ORDER BY LENGTH(name) ASC LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	defer rows.Close()

	var hits []source.Hit
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan food row: %w", err)
		}
		hits = append(hits, source.Hit{ID: strconv.FormatInt(id, 10), Description: name})
	}
	return hits, rows.Err()
}

// GetRecord 讀出一筆食物，轉成單一 100 g 份量的 FoodRecord
func (s *Source) GetRecord(ctx context.Context, id string) (*nutrition.FoodRecord, error) {
	foodID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid local food id %q: %w", id, err)
	}

	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, kcal_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g, fiber_per_100g
        FROM foods WHERE id = ?
    `, foodID)

	var (
		dbID    int64
		name    string
		kcal    float64
		protein float64
		carbs   float64
		fat     float64
		fiber   sql.NullFloat64
	)
	if err := row.Scan(&dbID, &name, &kcal, &protein, &carbs, &fat, &fiber); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("food %q not found", id)
		}
		return nil, fmt.Errorf("failed to load food %q: %w", id, err)
	}

	serving := nutrition.Serving{
		AmountValue: 100,
		AmountUnit:  "g",
		Description: "100 g",
		Kcal:        kcal,
		ProteinG:    protein,
		CarbsG:      carbs,
		FatG:        fat,
	}
	if fiber.Valid {
		f := fiber.Float64
		serving.FiberG = &f
	}

	return &nutrition.FoodRecord{
		ID:       strconv.FormatInt(dbID, 10),
		Name:     name,
		Servings: []nutrition.Serving{serving},
	}, nil
}
