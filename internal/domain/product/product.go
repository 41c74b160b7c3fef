package product

import (
	"errors"
	"math"
)

var (
	ErrInvalidName  = errors.New("name is required")
	ErrInvalidPrice = errors.New("price must not be negative")
)

// Product is a catalog record. OriginalPrice is zero when no discount is shown.
type Product struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Price         int      `json:"price"`
	OriginalPrice int      `json:"originalPrice,omitempty"`
	Category      string   `json:"category"`
	Stock         int      `json:"stock"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	New           bool     `json:"new"`
	Featured      bool     `json:"featured"`
	Image         string   `json:"image,omitempty"`
	ImageList     []string `json:"images,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// OnPromo reports whether the product is sold below its original price
func (p Product) OnPromo() bool {
	return p.OriginalPrice > p.Price
}

// DiscountPercent is the rounded percentage off the original price
func (p Product) DiscountPercent() int {
	if !p.OnPromo() || p.OriginalPrice <= 0 {
		return 0
	}
	off := float64(p.OriginalPrice-p.Price) / float64(p.OriginalPrice) * 100
	return int(math.Round(off))
}

// Images returns the gallery, falling back to the single cover image
func (p Product) Images() []string {
	if len(p.ImageList) > 0 {
		return p.ImageList
	}
	if p.Image != "" {
		return []string{p.Image}
	}
	return nil
}

func (p Product) Validate() error {
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.Price < 0 || p.OriginalPrice < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Patch carries the fields of a partial update; nil fields are left untouched
type Patch struct {
	Name          *string   `json:"name,omitempty"`
	Price         *int      `json:"price,omitempty"`
	OriginalPrice *int      `json:"originalPrice,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Stock         *int      `json:"stock,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	Reviews       *int      `json:"reviews,omitempty"`
	New           *bool     `json:"new,omitempty"`
	Featured      *bool     `json:"featured,omitempty"`
	Image         *string   `json:"image,omitempty"`
	ImageList     *[]string `json:"images,omitempty"`
	Description   *string   `json:"description,omitempty"`
}

// Apply merges the patch into p
func (pt Patch) Apply(p *Product) {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Price != nil {
		p.Price = *pt.Price
	}
	if pt.OriginalPrice != nil {
		p.OriginalPrice = *pt.OriginalPrice
	}
	if pt.Category != nil {
		p.Category = *pt.Category
	}
	if pt.Stock != nil {
		p.Stock = *pt.Stock
	}
	if pt.Rating != nil {
		p.Rating = *pt.Rating
	}
	if pt.Reviews != nil {
		p.Reviews = *pt.Reviews
	}
	if pt.New != nil {
		p.New = *pt.New
	}
	if pt.Featured != nil {
		p.Featured = *pt.Featured
	}
	if pt.Image != nil {
		p.Image = *pt.Image
	}
	if pt.ImageList != nil {
		p.ImageList = *pt.ImageList
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
}
