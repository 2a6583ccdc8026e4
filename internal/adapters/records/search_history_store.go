package records_client

import (
	"context"
	"encoding/json"
	"fmt"
	"listing-service/internal/core/domain"
	"time"
)

const searchHistoryTable = "search_history"

// SearchHistoryStore пишет и читает историю поиска в таблице search_history.
type SearchHistoryStore struct {
	client *Client
	now    func() time.Time
}

func NewSearchHistoryStore(client *Client) *SearchHistoryStore {
	return &SearchHistoryStore{client: client, now: time.Now}
}

func (s *SearchHistoryStore) Save(ctx context.Context, userID string, params domain.SearchParams) (*domain.SearchRecord, error) {
	logger := clientLogger(ctx, "RecordsSearchHistoryStore", "Save")

	params = params.Normalize()
	searchedAt := s.now().UTC()
	stamp := searchedAt.Format(time.RFC3339Nano)

	data, err := s.client.createRecord(ctx, searchHistoryTable, searchCreateDTO{
		Name:         fmt.Sprintf("Search-%s-%s", params.Location, stamp),
		UserID:       userID,
		Location:     params.Location,
		PropertyType: params.PropertyType,
		PriceRange:   params.PriceRange,
		Bedrooms:     params.Bedrooms,
		Bathrooms:    params.Bathrooms,
		SearchDate:   stamp,
	})
	if err != nil {
		logger.Error("Failed to save search", err, nil)
		return nil, err
	}

	var dto searchRecordDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode saved search: %w", err)
	}
	return &domain.SearchRecord{
		ID:         string(dto.ID),
		UserID:     userID,
		Params:     params,
		SearchedAt: searchedAt,
	}, nil
}

// ListRecent возвращает последние поиски, новые первыми.
func (s *SearchHistoryStore) ListRecent(ctx context.Context, userID string, limit int) ([]domain.SearchRecord, error) {
	logger := clientLogger(ctx, "RecordsSearchHistoryStore", "ListRecent")

	req := fetchRequest{
		Fields: searchHistoryFields,
		Where: []whereCondition{
			{FieldName: "user_id", Operator: operatorExactMatch, Values: []interface{}{userID}},
		},
		OrderBy: []orderBy{{FieldName: "search_date", SortType: sortDesc}},
	}
	if limit > 0 {
		req.PagingInfo = &pagingInfo{Limit: limit}
	}

	rows, err := s.client.fetchRecords(ctx, searchHistoryTable, req)
	if err != nil {
		logger.Error("Failed to fetch search history", err, nil)
		return nil, err
	}

	records := make([]domain.SearchRecord, 0, len(rows))
	for _, raw := range rows {
		var dto searchRecordDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("failed to decode search record: %w", err)
		}
		rec := domain.SearchRecord{
			ID:     string(dto.ID),
			UserID: string(dto.UserID),
			Params: domain.SearchParams{
				Location:     dto.Location,
				PropertyType: dto.PropertyType,
				PriceRange:   dto.PriceRange,
				Bedrooms:     dto.Bedrooms,
				Bathrooms:    dto.Bathrooms,
			},
		}
		if dto.SearchDate != nil {
			rec.SearchedAt = dto.SearchDate.UTC()
		}
		records = append(records, rec)
	}
	return records, nil
}
