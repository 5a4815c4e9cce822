// internal/core/domain/item.go
package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ItemCategory represents gallery item categories
type ItemCategory string

// Category constants
const (
	CategoryWallArt   ItemCategory = "wall-art"
	CategoryObject    ItemCategory = "object"
	CategoryCeramic   ItemCategory = "ceramic"
	CategoryFurniture ItemCategory = "furniture"
	CategoryLight     ItemCategory = "light"
	CategorySculpture ItemCategory = "sculpture"
	CategoryMisc      ItemCategory = "misc"
)

// ItemCondition represents item conditions
type ItemCondition string

// Condition constants
const (
	ConditionExcellent ItemCondition = "excellent"
	ConditionGood      ItemCondition = "good"
	ConditionFair      ItemCondition = "fair"
	ConditionAsIs      ItemCondition = "as-is"
)

// IDWidth is the zero-padded width of sequential item IDs.
const IDWidth = 6

// Item represents a single gallery listing persisted in the inventory document.
type Item struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Size        string          `json:"size,omitempty"`
	Category    ItemCategory    `json:"category"`
	Maker       string          `json:"maker,omitempty"`
	Condition   ItemCondition   `json:"condition,omitempty"`
	DealerCode  string          `json:"dealerCode,omitempty"`
	IsNew       bool            `json:"isNew"`
	IsHold      bool            `json:"isHold"`
	IsSold      bool            `json:"isSold"`
	Images      []string        `json:"images"`
	HeroImage   string          `json:"heroImage"`
	Order       int             `json:"order"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Validate performs domain validation on the item
func (i *Item) Validate() error {
	if i.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidItem)
	}
	if i.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidItem)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidItem)
	}
	if i.HeroImage != "" && !i.hasImage(i.HeroImage) {
		return fmt.Errorf("%w: heroImage must be one of the item's images", ErrInvalidItem)
	}
	return nil
}

func (i *Item) hasImage(path string) bool {
	for _, img := range i.Images {
		if img == path {
			return true
		}
	}
	return false
}

// NormalizeFlags enforces status flag exclusivity: a sold item can be
// neither new nor on hold.
func (i *Item) NormalizeFlags() {
	if i.IsSold {
		i.IsNew = false
		i.IsHold = false
	}
}

// MarkSold transitions the item to its terminal sold state. Returns false
// if the item is already sold, so duplicate webhook deliveries are no-ops.
func (i *Item) MarkSold() bool {
	if i.IsSold {
		return false
	}
	i.IsSold = true
	i.IsNew = false
	i.IsHold = false
	return true
}

// PrepareForStorage sets defaults before the item is written into a document
func (i *Item) PrepareForStorage() {
	if i.HeroImage == "" && len(i.Images) > 0 {
		i.HeroImage = i.Images[0]
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	i.NormalizeFlags()
}

// FormatID renders an item ID for display, e.g. "A000042".
func FormatID(id string) string {
	if n, err := strconv.Atoi(id); err == nil {
		return fmt.Sprintf("A%0*d", IDWidth, n)
	}
	return "A" + id
}
