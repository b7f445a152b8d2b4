package dto

import "github.com/RoyceAzure/lab/pickup/internal/domain/model"

type MenuItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Category    string `json:"category"`
}

type MenuResponse struct {
	Items []MenuItemDTO `json:"items"`
}

func ConvertMenuItems(items []model.MenuItem) MenuResponse {
	res := MenuResponse{Items: make([]MenuItemDTO, 0, len(items))}
	for _, it := range items {
		res.Items = append(res.Items, MenuItemDTO{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			PriceCents:  it.PriceCents,
			Category:    it.Category,
		})
	}
	return res
}
