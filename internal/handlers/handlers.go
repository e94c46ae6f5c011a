package handlers

import (
	"database/sql"

	"github.com/01moynul/bookstore-cart/internal/auth"
	"go.uber.org/zap"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB     *sql.DB
	JWT    *auth.Manager
	Logger *zap.Logger

	// PartialEcho makes cart writes answer with only {id, quantity}.
	PartialEcho bool
}
