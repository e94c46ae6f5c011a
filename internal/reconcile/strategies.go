package reconcile

import (
	"github.com/01moynul/bookstore-cart/internal/catalog"
	"github.com/01moynul/bookstore-cart/internal/models"
)

// AsIs uses the row unchanged when it already carries name, price and
// productId.
type AsIs struct{}

func (AsIs) Name() string { return "as-is" }

func (AsIs) Resolve(row models.CartRow, _ *Sources) (models.CartItem, error) {
	if !row.HasProductData() {
		return models.CartItem{}, ErrMiss
	}

	item := models.CartItem{
		ID:            row.ID.String(),
		ProductID:     row.ProductID.String(),
		Name:          *row.Name,
		Price:         *row.Price,
		OriginalPrice: firstPrice(row.OriginalPrice),
		Image:         str(row.Image),
		Description:   str(row.Description),
		Category:      str(row.Category),
		Brand:         str(row.Brand),
		Quantity:      row.Quantity,
		UserID:        row.UserID.String(),
	}
	if row.AddedAt != nil {
		item.AddedAt = *row.AddedAt
	}
	return item, nil
}

// FromBackup looks the row up in the user's backup snapshot by id, then by
// productId, and keeps the row's id and quantity.
type FromBackup struct{}

func (FromBackup) Name() string { return "backup" }

func (FromBackup) Resolve(row models.CartRow, src *Sources) (models.CartItem, error) {
	saved, ok := findBackup(src.Backup(), row)
	if !ok {
		return models.CartItem{}, ErrMiss
	}

	item := saved
	if row.ID != "" {
		item.ID = row.ID.String()
	}
	if item.ProductID == "" {
		item.ProductID = row.ProductID.String()
	}
	if row.UserID != "" {
		item.UserID = row.UserID.String()
	}
	item.Quantity = row.Quantity
	return item, nil
}

func findBackup(items []models.CartItem, row models.CartRow) (models.CartItem, bool) {
	if row.ID != "" {
		for _, it := range items {
			if IsPlaceholder(it) {
				continue
			}
			if it.ID != "" && it.ID == row.ID.String() {
				return it, true
			}
		}
	}
	if row.ProductID != "" {
		for _, it := range items {
			if !IsPlaceholder(it) && it.ProductID == row.ProductID.String() {
				return it, true
			}
		}
	}
	return models.CartItem{}, false
}

// FromCatalog maps a catalog snapshot entry matching the row's productId
// or id into an item.
type FromCatalog struct{}

func (FromCatalog) Name() string { return "catalog" }

func (FromCatalog) Resolve(row models.CartRow, src *Sources) (models.CartItem, error) {
	entry, ok := catalog.Find(src.Catalog(), row.ProductID, row.ID)
	if !ok {
		return models.CartItem{}, ErrMiss
	}

	productID := row.ProductID.String()
	if productID == "" {
		productID = entry.ID.String()
	}

	item := models.CartItem{
		ID:            row.ID.String(),
		ProductID:     productID,
		Name:          firstNonEmpty(entry.Name, entry.Title, PlaceholderName),
		Price:         CatalogPrice(entry),
		OriginalPrice: CatalogOriginalPrice(entry),
		Image:         CatalogImage(entry),
		Description:   firstNonEmpty(entry.ShortDescription, entry.Description),
		Brand:         entry.Brand,
		Quantity:      row.Quantity,
		UserID:        row.UserID.String(),
	}
	if entry.Categories != nil {
		item.Category = entry.Categories.Name
	}
	if item.Brand == "" && len(entry.Authors) > 0 {
		item.Brand = entry.Authors[0].Name
	}
	if row.AddedAt != nil {
		item.AddedAt = *row.AddedAt
	}
	return item, nil
}

// CatalogPrice prefers the current seller's price over the listed price.
func CatalogPrice(e models.CatalogEntry) float64 {
	if e.CurrentSeller != nil && e.CurrentSeller.Price != nil {
		return *e.CurrentSeller.Price
	}
	return firstPrice(e.Price, e.ListPrice, e.OriginalPrice)
}

// CatalogOriginalPrice is the pre-discount price, or the selling price
// when the entry lists none.
func CatalogOriginalPrice(e models.CatalogEntry) float64 {
	if e.OriginalPrice != nil || e.ListPrice != nil {
		return firstPrice(e.OriginalPrice, e.ListPrice)
	}
	return CatalogPrice(e)
}

// CatalogImage walks the known image fields in order.
func CatalogImage(e models.CatalogEntry) string {
	var candidates []string
	if len(e.Images) > 0 {
		img := e.Images[0]
		candidates = append(candidates, img.BaseURL, img.LargeURL, img.MediumURL, img.ThumbnailURL)
	}
	candidates = append(candidates, e.ThumbnailURL, e.Image)
	return firstNonEmpty(candidates...)
}

// Placeholder is the item emitted when no source knows the product.
func Placeholder(row models.CartRow) models.CartItem {
	productID := row.ProductID.String()
	if productID == "" {
		productID = row.ID.String()
	}
	item := models.CartItem{
		ID:        row.ID.String(),
		ProductID: productID,
		Name:      PlaceholderName,
		Price:     0,
		Quantity:  row.Quantity,
		UserID:    row.UserID.String(),
	}
	if row.AddedAt != nil {
		item.AddedAt = *row.AddedAt
	}
	return item
}

// IsPlaceholder reports whether item carries no product data of its own.
func IsPlaceholder(item models.CartItem) bool {
	return item.Name == PlaceholderName && item.Price == 0
}

func firstPrice(prices ...*float64) float64 {
	for _, p := range prices {
		if p != nil {
			return *p
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
