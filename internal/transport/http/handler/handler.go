package handler

import (
	"database/sql"
)

// Handler contains the health/readiness handlers and their dependencies.
type Handler struct {
	db *sql.DB
}

// New creates a new handler.
func New(db *sql.DB) *Handler {
	return &Handler{db: db}
}
