package models

import (
	"time"
)

// Product is the catalog item the storefront hands to the cart when the
// user presses "add to cart".
type Product struct {
	ID            string  `json:"id" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
	OriginalPrice float64 `json:"originalPrice" validate:"gte=0"`
	Image         string  `json:"image"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Brand         string  `json:"brand"`
}

// CatalogEntry is one entry of the locally persisted product catalog.
// The catalog is written by the storefront pages, so its shape is loose:
// every price and image field is optional and several of them overlap.
type CatalogEntry struct {
	ID               FlexID           `json:"id"`
	Name             string           `json:"name,omitempty"`
	Title            string           `json:"title,omitempty"`
	Price            *float64         `json:"price,omitempty"`
	ListPrice        *float64         `json:"list_price,omitempty"`
	OriginalPrice    *float64         `json:"original_price,omitempty"`
	CurrentSeller    *CatalogSeller   `json:"current_seller,omitempty"`
	Images           []CatalogImage   `json:"images,omitempty"`
	ThumbnailURL     string           `json:"thumbnail_url,omitempty"`
	Image            string           `json:"image,omitempty"`
	Description      string           `json:"description,omitempty"`
	ShortDescription string           `json:"short_description,omitempty"`
	Categories       *CatalogCategory `json:"categories,omitempty"`
	Authors          []CatalogAuthor  `json:"authors,omitempty"`
	Brand            string           `json:"brand,omitempty"`
}

// CatalogSeller holds the price the current seller is asking.
type CatalogSeller struct {
	Name  string   `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

// CatalogImage is one entry of a catalog item's image gallery.
type CatalogImage struct {
	BaseURL      string `json:"base_url,omitempty"`
	LargeURL     string `json:"large_url,omitempty"`
	MediumURL    string `json:"medium_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// CatalogCategory is the leaf category of a catalog item.
type CatalogCategory struct {
	Name string `json:"name,omitempty"`
}

// CatalogAuthor is one credited author of a book.
type CatalogAuthor struct {
	Name string `json:"name,omitempty"`
}

// Book is the model for the backend's 'books' table.
type Book struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Slug         string    `json:"slug" db:"slug"`
	Author       string    `json:"author" db:"author"`
	Category     string    `json:"category" db:"category"`
	Price        float64   `json:"price" db:"price"`
	ListPrice    float64   `json:"list_price" db:"list_price"`
	ThumbnailURL string    `json:"thumbnail_url" db:"thumbnail_url"`
	Description  string    `json:"description" db:"description"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// CatalogEntry converts a stored book into the catalog snapshot shape.
func (b Book) CatalogEntry() CatalogEntry {
	price := b.Price
	listPrice := b.ListPrice
	entry := CatalogEntry{
		ID:           FlexIDFromInt(b.ID),
		Name:         b.Title,
		Price:        &price,
		ListPrice:    &listPrice,
		ThumbnailURL: b.ThumbnailURL,
		Description:  b.Description,
	}
	if b.Category != "" {
		entry.Categories = &CatalogCategory{Name: b.Category}
	}
	if b.Author != "" {
		entry.Authors = []CatalogAuthor{{Name: b.Author}}
	}
	return entry
}
