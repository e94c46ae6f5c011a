package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/01moynul/bookstore-cart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexID(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want models.FlexID
	}{
		{"string", `{"id":"12"}`, "12"},
		{"number", `{"id":12}`, "12"},
		{"large_number", `{"id":9007199254740993}`, "9007199254740993"},
		{"null", `{"id":null}`, ""},
		{"uuid", `{"id":"0b9f4f8e-3c1d-4f67-a2c5-5f7f1c0f6b2a"}`, "0b9f4f8e-3c1d-4f67-a2c5-5f7f1c0f6b2a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v struct {
				ID models.FlexID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(tc.in), &v))
			assert.Equal(t, tc.want, v.ID)
		})
	}

	t.Run("rejects_objects", func(t *testing.T) {
		var v struct {
			ID models.FlexID `json:"id"`
		}
		assert.Error(t, json.Unmarshal([]byte(`{"id":{"x":1}}`), &v))
	})

	t.Run("marshals_as_string", func(t *testing.T) {
		out, err := json.Marshal(models.FlexIDFromInt(42))
		require.NoError(t, err)
		assert.Equal(t, `"42"`, string(out))
	})
}

func TestCartRow(t *testing.T) {
	t.Run("partial_echo", func(t *testing.T) {
		var row models.CartRow
		require.NoError(t, json.Unmarshal([]byte(`{"id":5,"quantity":2}`), &row))
		assert.Equal(t, models.FlexID("5"), row.ID)
		assert.Equal(t, 2, row.Quantity)
		assert.False(t, row.HasProductData())
	})

	t.Run("zero_price_still_counts", func(t *testing.T) {
		var row models.CartRow
		require.NoError(t, json.Unmarshal([]byte(`{"id":"5","productId":"P1","name":"Free","price":0,"quantity":1}`), &row))
		assert.True(t, row.HasProductData())
	})

	t.Run("empty_name_is_missing", func(t *testing.T) {
		var row models.CartRow
		require.NoError(t, json.Unmarshal([]byte(`{"id":"5","productId":"P1","name":"","price":10,"quantity":1}`), &row))
		assert.False(t, row.HasProductData())
	})

	t.Run("from_item", func(t *testing.T) {
		item := models.CartItem{ID: "1", ProductID: "P1", Name: "Go", Price: 10, Quantity: 3, UserID: "u1", AddedAt: time.Unix(0, 0)}
		row := models.RowFromItem(item)
		assert.True(t, row.HasProductData())
		assert.Equal(t, models.FlexID("u1"), row.UserID)
		require.NotNil(t, row.AddedAt)
		assert.Equal(t, 30.0, item.LineTotal())
	})
}

func TestBook_CatalogEntry(t *testing.T) {
	b := models.Book{ID: 7, Title: "Dế Mèn", Author: "Tô Hoài", Category: "Văn học", Price: 45000, ListPrice: 60000}
	e := b.CatalogEntry()

	assert.Equal(t, models.FlexID("7"), e.ID)
	assert.Equal(t, "Dế Mèn", e.Name)
	require.NotNil(t, e.Price)
	assert.Equal(t, 45000.0, *e.Price)
	require.NotNil(t, e.Categories)
	assert.Equal(t, "Văn học", e.Categories.Name)
	require.Len(t, e.Authors, 1)

	assert.Nil(t, models.Book{ID: 8}.CatalogEntry().Categories)
}

func TestPassword(t *testing.T) {
	var p models.Password
	require.NoError(t, p.Set("s3cret!"))
	assert.NotEqual(t, "s3cret!", p.Hash)

	ok, err := p.Matches("s3cret!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matches("wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}
