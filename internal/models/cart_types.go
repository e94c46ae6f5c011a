package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// CartItem is one product line in a user's cart, with the product
// attributes captured at add-time. The same shape is sent to the
// remote /carts collection and stored in the local backup snapshot.
type CartItem struct {
	ID            string    `json:"id,omitempty"`
	ProductID     string    `json:"productId"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice"`
	Image         string    `json:"image"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand"`
	Quantity      int       `json:"quantity"`
	UserID        string    `json:"userId"`
	AddedAt       time.Time `json:"addedAt"`
}

// LineTotal is price x quantity for this line.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartRow is a cart record as the remote service returns it.
// Some write paths only echo {id, quantity}, so every product
// attribute is optional.
type CartRow struct {
	ID            FlexID     `json:"id"`
	ProductID     FlexID     `json:"productId,omitempty"`
	Name          *string    `json:"name,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	OriginalPrice *float64   `json:"originalPrice,omitempty"`
	Image         *string    `json:"image,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Category      *string    `json:"category,omitempty"`
	Brand         *string    `json:"brand,omitempty"`
	Quantity      int        `json:"quantity"`
	UserID        FlexID     `json:"userId,omitempty"`
	AddedAt       *time.Time `json:"addedAt,omitempty"`
}

// HasProductData reports whether the row carries enough to be used as-is.
func (r CartRow) HasProductData() bool {
	return r.Name != nil && *r.Name != "" && r.Price != nil && r.ProductID != ""
}

// RowFromItem builds the row the backend would store for item.
func RowFromItem(item CartItem) CartRow {
	row := CartRow{
		ID:            FlexID(item.ID),
		ProductID:     FlexID(item.ProductID),
		Name:          &item.Name,
		Price:         &item.Price,
		OriginalPrice: &item.OriginalPrice,
		Image:         &item.Image,
		Description:   &item.Description,
		Category:      &item.Category,
		Brand:         &item.Brand,
		Quantity:      item.Quantity,
		UserID:        FlexID(item.UserID),
	}
	if !item.AddedAt.IsZero() {
		addedAt := item.AddedAt
		row.AddedAt = &addedAt
	}
	return row
}

// FlexID is an identifier that may arrive as a JSON string or a JSON number.
type FlexID string

func (id FlexID) String() string { return string(id) }

// UnmarshalJSON accepts "12", 12 and null.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

// MarshalJSON always writes the id as a string.
func (id FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// FlexIDFromInt formats a numeric database id.
func FlexIDFromInt(id int64) FlexID {
	return FlexID(strconv.FormatInt(id, 10))
}
