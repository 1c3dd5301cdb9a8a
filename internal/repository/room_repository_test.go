package repository

import (
	"strings"
	"testing"

	"github.com/stayspot/stayspot/internal/domain"
)

func TestBuildSearchQueryAlwaysExcludesRented(t *testing.T) {
	cityID := int64(7)
	searches := []*domain.RoomSearch{
		{},
		{CityID: &cityID},
		{RoomType: domain.RoomShared, SortBy: domain.SortByPrice},
	}
	for _, search := range searches {
		q, _ := buildSearchQuery(search)
		if !strings.Contains(q, "r.is_rented = false") {
			t.Errorf("rented rooms must always be excluded, query: %s", q)
		}
	}
}

func TestBuildSearchQueryFilters(t *testing.T) {
	cityID := int64(7)
	priceMin := 500.0
	sizeMax := 30

	q, args := buildSearchQuery(&domain.RoomSearch{
		CityID:       &cityID,
		Gender:       domain.GenderFemale,
		Description:  "campus",
		RentPriceMin: &priceMin,
		SizeMax:      &sizeMax,
	})

	for _, clause := range []string{
		"a.city_id = $1",
		"r.gender = $2",
		"r.description LIKE $3",
		"r.rent_price >= $4",
		"r.size <= $5",
	} {
		if !strings.Contains(q, clause) {
			t.Errorf("missing clause %q in query: %s", clause, q)
		}
	}
	if strings.Contains(q, "ILIKE") {
		t.Error("description matching must be case sensitive")
	}

	want := []any{cityID, domain.GenderFemale, "%campus%", priceMin, sizeMax}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %d: %v", len(want), len(args), args)
	}
	for i, v := range want {
		if args[i] != v {
			t.Errorf("arg %d: expected %v, got %v", i, v, args[i])
		}
	}
}

func TestBuildSearchQuerySorting(t *testing.T) {
	cases := []struct {
		name   string
		search domain.RoomSearch
		clause string
	}{
		{"price ascending", domain.RoomSearch{SortBy: domain.SortByPrice}, "ORDER BY r.rent_price ASC"},
		{"price descending", domain.RoomSearch{SortBy: domain.SortByPrice, SortDir: "desc"}, "ORDER BY r.rent_price DESC"},
		{"size ascending", domain.RoomSearch{SortBy: domain.SortBySize}, "ORDER BY r.size ASC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, _ := buildSearchQuery(&tc.search)
			if !strings.Contains(q, tc.clause) {
				t.Errorf("missing %q in query: %s", tc.clause, q)
			}
		})
	}

	q, _ := buildSearchQuery(&domain.RoomSearch{SortBy: "bogus"})
	if strings.Contains(q, "ORDER BY") {
		t.Errorf("unknown sort key must leave results unsorted, query: %s", q)
	}
}
