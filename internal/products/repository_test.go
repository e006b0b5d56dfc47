package products

import (
	"context"
	"testing"

	"github.com/agrihub/agrihub-backend/pkg/db/models"
	"github.com/agrihub/agrihub-backend/pkg/pagination"
	"github.com/lib/pq"
)

func seedProduct(t *testing.T, repo *Repository, product *models.Product) *models.Product {
	t.Helper()
	created, err := repo.Create(context.Background(), product)
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Delete(context.Background(), created.ID)
	})
	return created
}

func TestSortClauseWhitelistsColumns(t *testing.T) {
	cases := []struct {
		name    string
		filters ListFilters
		want    string
	}{
		{"default", ListFilters{}, "created_at DESC"},
		{"view count asc", ListFilters{SortBy: "view_count", SortAsc: true}, "view_count ASC"},
		{"unknown column falls back", ListFilters{SortBy: "password_hash; DROP TABLE products"}, "created_at DESC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sortClause(tc.filters); got != tc.want {
				t.Fatalf("sortClause = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestListFiltersBySeasonOverlap(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	kharif := seedProduct(t, repo, &models.Product{
		CompanyName:    "GreenGrow Ltd",
		ProductName:    "Kharif Mix",
		AppliedSeasons: pq.StringArray{"kharif"},
		IsActive:       true,
	})
	seedProduct(t, repo, &models.Product{
		CompanyName:    "GreenGrow Ltd",
		ProductName:    "Rabi Mix",
		AppliedSeasons: pq.StringArray{"rabi"},
		IsActive:       true,
	})

	rows, _, err := repo.List(ctx, ListFilters{Season: "kharif", CompanyName: "GreenGrow Ltd"}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != kharif.ID {
		t.Fatalf("expected only the kharif product, got %d rows", len(rows))
	}
}

func TestListSearchMatchesNameCaseInsensitive(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	seedProduct(t, repo, &models.Product{
		CompanyName: "AgriCorp",
		ProductName: "SuperPhosphate Gold",
		IsActive:    true,
	})

	rows, _, err := repo.List(ctx, ListFilters{Query: "superphosphate"}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("expected case-insensitive match on product name")
	}
}

func TestIncrementViewCountIsCumulative(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	product := seedProduct(t, repo, &models.Product{
		CompanyName: "AgriCorp",
		ProductName: "View Counter",
		IsActive:    true,
	})

	for i := 0; i < 3; i++ {
		if err := repo.IncrementViewCount(ctx, product.ID); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	fresh, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.ViewCount != 3 {
		t.Fatalf("expected view_count 3, got %d", fresh.ViewCount)
	}
}
