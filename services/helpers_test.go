package services

import (
	"github.com/shopspring/decimal"

	"shophub/models"
)

func testProduct(id int, title, price, category string, rate float64) models.Product {
	return models.Product{
		ID:       id,
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Category: category,
		Image:    "https://fakestoreapi.com/img/product.jpg",
		Rating:   models.Rating{Rate: rate, Count: 10},
	}
}

func productIDs(products []models.Product) []int {
	ids := make([]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func lineIDs(state models.CartState) []int {
	ids := make([]int, len(state.Items))
	for i, line := range state.Items {
		ids[i] = line.ID
	}
	return ids
}
