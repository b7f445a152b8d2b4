package db

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed seed/menu.yaml
var defaultMenuSeed []byte

type menuSeedFile struct {
	Items []menuSeedItem `yaml:"items"`
}

type menuSeedItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	PriceCents  int64  `yaml:"price_cents"`
	Category    string `yaml:"category"`
	Active      *bool  `yaml:"active"`
}

// LoadMenuSeed 讀取 seed 檔, path 為空時使用內建菜單
func LoadMenuSeed(path string) ([]model.MenuItem, error) {
	data := defaultMenuSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return ParseMenuSeed(data)
}

func ParseMenuSeed(data []byte) ([]model.MenuItem, error) {
	var f menuSeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	items := make([]model.MenuItem, 0, len(f.Items))
	for _, it := range f.Items {
		active := true
		if it.Active != nil {
			active = *it.Active
		}
		items = append(items, model.MenuItem{
			Name:        it.Name,
			Description: it.Description,
			PriceCents:  it.PriceCents,
			Category:    it.Category,
			IsActive:    active,
		})
	}
	return items, nil
}

// SeedMenuIfEmpty menu_items 沒有任何資料時才寫入, 回傳寫入筆數
func SeedMenuIfEmpty(ctx context.Context, repo ICatalogRepository, items []model.MenuItem) (int, error) {
	count, err := repo.CountMenuItems(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for i := range items {
		item := items[i]
		if err := repo.CreateMenuItem(ctx, &item); err != nil {
			return i, fmt.Errorf("seed %q: %w", item.Name, err)
		}
	}
	return len(items), nil
}
