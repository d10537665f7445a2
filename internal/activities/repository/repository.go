// Package repository provides pgx-backed persistence for the activities
// bounded context: the four source tables (activity_logs, reminders,
// meetings, demos), the unified feed query, and the deletion audit trail.
package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for activity source records.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new activities repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}
