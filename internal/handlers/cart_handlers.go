package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/01moynul/bookstore-cart/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//
// --- Cart Handlers (/carts) ---
//

// CartItemInput defines the JSON body of POST and PUT /carts.
// Ids may arrive as strings or numbers.
type CartItemInput struct {
	ProductID     models.FlexID `json:"productId" binding:"required"`
	Name          string        `json:"name"`
	Price         float64       `json:"price" binding:"gte=0"`
	OriginalPrice float64       `json:"originalPrice" binding:"gte=0"`
	Image         string        `json:"image"`
	Description   string        `json:"description"`
	Category      string        `json:"category"`
	Brand         string        `json:"brand"`
	Quantity      int           `json:"quantity" binding:"required,gt=0"`
	UserID        models.FlexID `json:"userId" binding:"required"`
	AddedAt       time.Time     `json:"addedAt"`
}

func (in CartItemInput) item(id string) models.CartItem {
	addedAt := in.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}
	return models.CartItem{
		ID:            id,
		ProductID:     in.ProductID.String(),
		Name:          in.Name,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Image:         in.Image,
		Description:   in.Description,
		Category:      in.Category,
		Brand:         in.Brand,
		Quantity:      in.Quantity,
		UserID:        in.UserID.String(),
		AddedAt:       addedAt,
	}
}

const cartColumns = `id, user_id, product_id, name, price, original_price, image, description, category, brand, quantity, added_at`

// GetCarts is the handler for GET /carts?userId={id}
func (h *Handlers) GetCarts(c *gin.Context) {
	// 1. --- Read & Authorize User ---
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	if !h.canAccess(c, userID) {
		return
	}

	// 2. --- Query Database ---
	rows, err := h.DB.QueryContext(c.Request.Context(),
		"SELECT "+cartColumns+" FROM carts WHERE user_id = ? ORDER BY added_at ASC, id ASC", userID)
	if err != nil {
		h.Logger.Error("query carts", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	// 3. --- Scan Results ---
	items := []models.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			h.Logger.Error("scan cart row", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan cart data"})
			return
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating cart rows"})
		return
	}

	// 4. --- Send Response ---
	c.JSON(http.StatusOK, items)
}

// CreateCartItem is the handler for POST /carts
func (h *Handlers) CreateCartItem(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if !h.canAccess(c, input.UserID.String()) {
		return
	}

	// 2. --- Build Row (server assigns the id) ---
	item := input.item(uuid.NewString())

	// 3. --- Save to Database ---
	query := "INSERT INTO carts (" + cartColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	if _, err := h.DB.ExecContext(c.Request.Context(), query, cartArgs(item)...); err != nil {
		h.Logger.Error("insert cart row", zap.String("user_id", item.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}

	// 4. --- Send Response ---
	h.respondCartItem(c, http.StatusCreated, item)
}

// UpdateCartItem is the handler for PUT /carts/:id
// The row is replaced wholesale with the request body.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	id := c.Param("id")

	// 1. --- Bind & Validate JSON ---
	var input CartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	// 2. --- Check Ownership ---
	existing, ok := h.findCartItem(c, id)
	if !ok {
		return
	}
	if !h.canAccess(c, existing.UserID) {
		return
	}

	// 3. --- Update Database ---
	item := input.item(id)
	item.UserID = existing.UserID
	if input.AddedAt.IsZero() {
		item.AddedAt = existing.AddedAt
	}

	query := `
		UPDATE carts SET
			product_id = ?, name = ?, price = ?, original_price = ?, image = ?,
			description = ?, category = ?, brand = ?, quantity = ?, added_at = ?
		WHERE id = ?`
	_, err := h.DB.ExecContext(c.Request.Context(), query,
		item.ProductID, item.Name, item.Price, item.OriginalPrice, item.Image,
		item.Description, item.Category, item.Brand, item.Quantity, item.AddedAt,
		id)
	if err != nil {
		h.Logger.Error("update cart row", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}

	// 4. --- Send Response ---
	h.respondCartItem(c, http.StatusOK, item)
}

// DeleteCartItem is the handler for DELETE /carts/:id
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	id := c.Param("id")

	// 1. --- Check Ownership ---
	existing, ok := h.findCartItem(c, id)
	if !ok {
		return
	}
	if !h.canAccess(c, existing.UserID) {
		return
	}

	// 2. --- Delete ---
	if _, err := h.DB.ExecContext(c.Request.Context(), "DELETE FROM carts WHERE id = ?", id); err != nil {
		h.Logger.Error("delete cart row", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}

	c.Status(http.StatusNoContent)
}

// findCartItem loads a row by id, writing a 404/500 response on failure.
func (h *Handlers) findCartItem(c *gin.Context, id string) (models.CartItem, bool) {
	row := h.DB.QueryRowContext(c.Request.Context(), "SELECT "+cartColumns+" FROM carts WHERE id = ?", id)
	item, err := scanCartItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return models.CartItem{}, false
	}
	if err != nil {
		h.Logger.Error("find cart row", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return models.CartItem{}, false
	}
	return item, true
}

// canAccess lets anonymous requests through. An authenticated caller may
// only touch their own rows.
func (h *Handlers) canAccess(c *gin.Context, ownerID string) bool {
	subject, authenticated := c.Get("userID")
	if !authenticated || subject == ownerID {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "You can only access your own cart"})
	return false
}

func (h *Handlers) respondCartItem(c *gin.Context, status int, item models.CartItem) {
	if h.PartialEcho {
		c.JSON(status, gin.H{"id": item.ID, "quantity": item.Quantity})
		return
	}
	c.JSON(status, item)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCartItem(s rowScanner) (models.CartItem, error) {
	var item models.CartItem
	err := s.Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Name,
		&item.Price,
		&item.OriginalPrice,
		&item.Image,
		&item.Description,
		&item.Category,
		&item.Brand,
		&item.Quantity,
		&item.AddedAt,
	)
	return item, err
}

func cartArgs(item models.CartItem) []interface{} {
	return []interface{}{
		item.ID,
		item.UserID,
		item.ProductID,
		item.Name,
		item.Price,
		item.OriginalPrice,
		item.Image,
		item.Description,
		item.Category,
		item.Brand,
		item.Quantity,
		item.AddedAt,
	}
}
