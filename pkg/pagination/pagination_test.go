package pagination

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		in       Params
		wantPage int
		wantSize int
	}{
		{"defaults", Params{}, 1, DefaultPageSize},
		{"negative page", Params{Page: -3, PageSize: 10}, 1, 10},
		{"zero size", Params{Page: 4}, 4, DefaultPageSize},
		{"capped size", Params{Page: 2, PageSize: 500}, 2, MaxPageSize},
		{"already valid", Params{Page: 3, PageSize: 24}, 3, 24},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if got.Page != tc.wantPage || got.PageSize != tc.wantSize {
				t.Fatalf("Normalize(%+v) = %+v, want page=%d size=%d", tc.in, got, tc.wantPage, tc.wantSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   Params
		want int
	}{
		{Params{Page: 1, PageSize: 12}, 0},
		{Params{Page: 2, PageSize: 12}, 12},
		{Params{Page: 5, PageSize: 20}, 80},
		{Params{}, 0},
		{Params{Page: 3}, 2 * DefaultPageSize},
	}

	for _, tc := range cases {
		if got := tc.in.Offset(); got != tc.want {
			t.Fatalf("Offset(%+v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestLimit(t *testing.T) {
	t.Parallel()

	if got := (Params{PageSize: 700}).Limit(); got != MaxPageSize {
		t.Fatalf("Limit() = %d, want %d", got, MaxPageSize)
	}
	if got := (Params{}).Limit(); got != DefaultPageSize {
		t.Fatalf("Limit() = %d, want %d", got, DefaultPageSize)
	}
}
