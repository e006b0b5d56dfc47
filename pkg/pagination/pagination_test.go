package pagination

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name      string
		in        Params
		wantPage  int
		wantLimit int
	}{
		{"defaults", Params{}, 1, DefaultLimit},
		{"negative page", Params{Page: -3, Limit: 10}, 1, 10},
		{"capped limit", Params{Page: 2, Limit: 5000}, 2, MaxLimit},
		{"passthrough", Params{Page: 4, Limit: 50}, 4, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if got.Page != tc.wantPage || got.Limit != tc.wantLimit {
				t.Fatalf("got page=%d limit=%d, want page=%d limit=%d", got.Page, got.Limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 3, Limit: 20}).Offset(); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
	if got := (Params{}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 20}, 45)
	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", meta.TotalPages)
	}
	if meta.Total != 45 || meta.Page != 2 || meta.Limit != 20 {
		t.Fatalf("unexpected meta: %+v", meta)
	}

	meta = NewMeta(Params{Limit: 10}, 40)
	if meta.TotalPages != 4 {
		t.Fatalf("expected 4 pages for exact division, got %d", meta.TotalPages)
	}
}
