package article

import (
	"context"
	"time"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
	authsvc "news-aggregator/internal/service/auth"
	artUC "news-aggregator/internal/usecase/article"
)

type stubAuth struct{}

func (stubAuth) Authenticate(_ context.Context, token string) (*authsvc.Claims, error) {
	if token != "good-token" {
		return nil, authsvc.ErrInvalidToken
	}
	return &authsvc.Claims{UserID: 7, TokenID: "jti"}, nil
}

type stubService struct {
	items       []artUC.Item
	err         error
	suggestions *artUC.Suggestions

	gotList   artUC.ListInput
	gotSearch artUC.SearchInput
	gotUser   int64
	gotUUID   string
	gotParams pagination.Params
}

var published = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func sampleItem() artUC.Item {
	cat := int64(3)
	return artUC.Item{
		ArticleWithRelations: repository.ArticleWithRelations{
			Article: &entity.Article{
				ID:                 1,
				UUID:               "2b1d6f0e-8a51-4c1e-9d6c-0f3e4a5b6c7d",
				SourceID:           2,
				CategoryID:         &cat,
				Title:              "Go 1.26 released",
				Description:        "<p>The   Go team is <b>happy</b> to announce</p>",
				Content:            "full body",
				URL:                "https://example.com/go",
				Author:             "Gopher",
				PublishedAt:        published,
				Language:           "en",
				Country:            "us",
				WordCount:          420,
				ReadingTimeMinutes: 3,
				CreatedAt:          published,
			},
			SourceName:    "Example News",
			SourceSlug:    "example-news",
			CategoryName:  "Technology",
			CategorySlug:  "technology",
			CategoryColor: "#3B82F6",
		},
		Bookmarked: true,
	}
}

func (s *stubService) result(params pagination.Params) *artUC.Result {
	return &artUC.Result{
		Items:      s.items,
		Pagination: pagination.NewMetadata(params, int64(len(s.items)), len(s.items)),
	}
}

func (s *stubService) List(_ context.Context, in artUC.ListInput) (*artUC.Result, error) {
	s.gotList = in
	if s.err != nil {
		return nil, s.err
	}
	return s.result(in.Params), nil
}

func (s *stubService) Search(_ context.Context, in artUC.SearchInput) (*artUC.Result, error) {
	s.gotSearch = in
	if s.err != nil {
		return nil, s.err
	}
	return s.result(in.Params), nil
}

func (s *stubService) Get(_ context.Context, uuid string, userID int64) (*artUC.Item, error) {
	s.gotUUID, s.gotUser = uuid, userID
	if s.err != nil {
		return nil, s.err
	}
	it := s.items[0]
	return &it, nil
}

func (s *stubService) Suggest(_ context.Context, _ string) (*artUC.Suggestions, error) {
	return s.suggestions, s.err
}

func (s *stubService) Bookmark(_ context.Context, userID int64, uuid string) error {
	s.gotUser, s.gotUUID = userID, uuid
	return s.err
}

func (s *stubService) RemoveBookmark(_ context.Context, userID int64, uuid string) error {
	s.gotUser, s.gotUUID = userID, uuid
	return s.err
}

func (s *stubService) Bookmarks(_ context.Context, userID int64, params pagination.Params) (*artUC.Result, error) {
	s.gotUser, s.gotParams = userID, params
	if s.err != nil {
		return nil, s.err
	}
	return s.result(params), nil
}
