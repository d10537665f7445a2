package service

import (
	"context"
	"strings"

	"salescrm_backend/internal/activities/domain"
	"salescrm_backend/internal/activities/repository"
	"salescrm_backend/internal/activities/transport"
	"salescrm_backend/platform/apperr"

	"github.com/google/uuid"
)

// Page sizes the feed accepts. The default is the smallest.
var allowedPageSizes = map[int]bool{10: true, 30: true, 100: true, 200: true}

const defaultPageSize = 10

// List returns one page of the unified activity feed for the organization.
// Pagination is 1-indexed; Total counts every row matching the search and
// filter so the client can derive the page count.
func (s *Service) List(ctx context.Context, org uuid.UUID, req transport.ListActivitiesRequest) (transport.ActivityListResponse, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return transport.ActivityListResponse{}, apperr.Validation("page must be 1 or greater")
	}

	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if !allowedPageSizes[pageSize] {
		return transport.ActivityListResponse{}, apperr.Validation("pageSize must be one of 10, 30, 100, 200")
	}

	filter := req.Filter
	if filter == "" {
		filter = transport.FilterAll
	}
	switch filter {
	case transport.FilterAll, transport.FilterToday, transport.FilterScheduled,
		transport.FilterCompleted, transport.FilterOverdue, transport.FilterCanceled:
	default:
		return transport.ActivityListResponse{}, apperr.Validation("unknown filter: " + filter)
	}

	rows, total, err := s.store.ListFeed(ctx, org, repository.ListFeedParams{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(req.Search),
		Filter:   filter,
	})
	if err != nil {
		return transport.ActivityListResponse{}, err
	}

	data := make([]domain.UnifiedActivity, 0, len(rows))
	for _, row := range rows {
		data = append(data, MapFeedRow(row))
	}

	return transport.ActivityListResponse{
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
