// Package transport defines the response contracts for the leads context.
package transport

import "salescrm_backend/internal/leads/domain"

// DeletedLeadsResponse lists recycle-bin leads.
type DeletedLeadsResponse struct {
	Data []domain.Lead `json:"data"`
}
