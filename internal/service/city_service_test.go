package service

import (
	"context"
	"testing"

	"github.com/stayspot/stayspot/internal/domain"
)

type mockCityRepo struct {
	lastPattern string
	cities      []domain.City
	provinces   []domain.Province
	calls       int
}

func (m *mockCityRepo) SearchByName(ctx context.Context, pattern string) ([]domain.City, error) {
	m.calls++
	m.lastPattern = pattern
	return m.cities, nil
}

func (m *mockCityRepo) ListByProvince(ctx context.Context, provinceID int64) ([]domain.City, error) {
	return m.cities, nil
}

func (m *mockCityRepo) ListProvinces(ctx context.Context) ([]domain.Province, error) {
	return m.provinces, nil
}

func TestCitySearchPatternTiers(t *testing.T) {
	cases := []struct {
		query   string
		pattern string
	}{
		{"C", "C%"},
		{"Cal", "Cal%"},
		{"Calg", "%Calg%"},
		{"  Calgary ", "%Calgary%"},
		{"Éze", "Éze%"}, // three runes, more bytes
		{"Łódź", "%Łódź%"},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			repo := &mockCityRepo{}
			svc := NewCityService(repo)

			if _, err := svc.Search(context.Background(), tc.query); err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if repo.lastPattern != tc.pattern {
				t.Errorf("query %q: expected pattern %q, got %q", tc.query, tc.pattern, repo.lastPattern)
			}
		})
	}
}

func TestCitySearchEmptyQuery(t *testing.T) {
	repo := &mockCityRepo{}
	svc := NewCityService(repo)

	cities, err := svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if cities != nil {
		t.Errorf("expected no results for a blank query, got %v", cities)
	}
	if repo.calls != 0 {
		t.Error("a blank query must not hit the repository")
	}
}
