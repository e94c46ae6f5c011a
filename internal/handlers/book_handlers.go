package handlers

import (
	"net/http"
	"time"

	"github.com/01moynul/bookstore-cart/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// CreateBookInput defines the JSON input for creating a book
type CreateBookInput struct {
	Title        string  `json:"title" binding:"required"`
	Author       string  `json:"author"`
	Category     string  `json:"category"`
	Price        float64 `json:"price" binding:"gte=0"`
	ListPrice    float64 `json:"list_price" binding:"gte=0"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Description  string  `json:"description"`
}

// CreateBook is the handler for POST /books
func (h *Handlers) CreateBook(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Create Book Model ---
	now := time.Now().UTC()
	book := &models.Book{
		Title:        input.Title,
		Slug:         slug.Make(input.Title), // Generate slug from title
		Author:       input.Author,
		Category:     input.Category,
		Price:        input.Price,
		ListPrice:    input.ListPrice,
		ThumbnailURL: input.ThumbnailURL,
		Description:  input.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if book.ListPrice == 0 {
		book.ListPrice = book.Price
	}

	// 3. --- Save to Database ---
	query := `
		INSERT INTO books
		(title, slug, author, category, price, list_price, thumbnail_url, description, created_at, updated_at)
		VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []interface{}{
		book.Title,
		book.Slug,
		book.Author,
		book.Category,
		book.Price,
		book.ListPrice,
		book.ThumbnailURL,
		book.Description,
		book.CreatedAt,
		book.UpdatedAt,
	}

	result, err := h.DB.ExecContext(c.Request.Context(), query, args...)
	if err != nil {
		// Most likely a unique constraint failure on 'slug'.
		h.Logger.Warn("insert book", zap.String("slug", book.Slug), zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create book, it may already exist."})
		return
	}

	id, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get new book ID"})
		return
	}
	book.ID = id

	// 4. --- Send Success Response ---
	c.JSON(http.StatusCreated, gin.H{
		"message": "Book created successfully",
		"book":    book,
	})
}

// GetAllBooks is the handler for GET /books
// The response is the catalog snapshot shape the cart client stores.
func (h *Handlers) GetAllBooks(c *gin.Context) {
	// 1. --- Query Database ---
	query := `
		SELECT id, title, slug, author, category, price, list_price, thumbnail_url, description, created_at, updated_at
		FROM books ORDER BY title ASC`

	rows, err := h.DB.QueryContext(c.Request.Context(), query)
	if err != nil {
		h.Logger.Error("query books", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	// 2. --- Scan Results ---
	entries := []models.CatalogEntry{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Slug,
			&b.Author,
			&b.Category,
			&b.Price,
			&b.ListPrice,
			&b.ThumbnailURL,
			&b.Description,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan book data"})
			return
		}
		entries = append(entries, b.CatalogEntry())
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating book rows"})
		return
	}

	// 3. --- Send Response ---
	c.JSON(http.StatusOK, entries)
}
