package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/stayspot/stayspot/internal/domain"
	"github.com/stayspot/stayspot/internal/repository"
)

type CityService interface {
	Search(ctx context.Context, query string) ([]domain.City, error)
	ListByProvince(ctx context.Context, provinceID int64) ([]domain.City, error)
	ListProvinces(ctx context.Context) ([]domain.Province, error)
}

type cityService struct {
	cities repository.CityRepository
}

func NewCityService(cities repository.CityRepository) CityService {
	return &cityService{cities: cities}
}

// Search matches city names case-insensitively. Short queries match as a
// prefix to keep typeahead results focused; from four characters on the
// query matches anywhere in the name.
func (s *cityService) Search(ctx context.Context, query string) ([]domain.City, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	pattern := query + "%"
	if utf8.RuneCountInString(query) >= 4 {
		pattern = "%" + query + "%"
	}
	return s.cities.SearchByName(ctx, pattern)
}

func (s *cityService) ListByProvince(ctx context.Context, provinceID int64) ([]domain.City, error) {
	return s.cities.ListByProvince(ctx, provinceID)
}

func (s *cityService) ListProvinces(ctx context.Context) ([]domain.Province, error) {
	return s.cities.ListProvinces(ctx)
}
