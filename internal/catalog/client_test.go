package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/suppcart/storefront/pkg/config"
	pkgerrors "github.com/suppcart/storefront/pkg/errors"
	"github.com/suppcart/storefront/pkg/pagination"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.CatalogConfig{
		BaseURL:               server.URL,
		ImageBaseURL:          "https://cdn.example.com",
		Timeout:               2 * time.Second,
		MaxRetries:            2,
		ProductPlaceholderURL: "https://placeholder.example.com/product.png",
		BannerPlaceholderURL:  "https://placeholder.example.com/banner.png",
		FeaturedLimit:         3,
		BannerLimit:           2,
	}, nil)
}

const productListing = `{
	"count": 30,
	"next": "/products?offset=12",
	"previous": null,
	"results": [
		{
			"id": "p1",
			"name": "Whey Protein",
			"slug": "whey-protein",
			"short_explanation": "protein powder",
			"price_info": {"profit": null, "total_price": 549, "discounted_price": null, "price_per_servings": 18.3},
			"photo_src": "/media/whey.png",
			"comment_count": 12,
			"average_star": 4.7
		}
	]
}`

func TestListProductsUnwrapsDoubleEnvelope(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{"status":"success","data":` + productListing + `}}`))
	}))

	page, err := client.ListProducts(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 30 {
		t.Fatalf("got count %d, want 30", page.TotalCount)
	}
	if len(page.Items) != 1 || page.Items[0].Slug != "whey-protein" {
		t.Fatalf("got items %v", page.Items)
	}
}

func TestListProductsUnwrapsSingleEnvelope(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":` + productListing + `}`))
	}))

	page, err := client.ListProducts(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 30 {
		t.Fatalf("got count %d, want 30", page.TotalCount)
	}
}

func TestListProductsSendsOffsetQuery(t *testing.T) {
	var gotLimit, gotOffset, gotSearch string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		gotLimit = query.Get("limit")
		gotOffset = query.Get("offset")
		gotSearch = query.Get("search")
		w.Write([]byte(`{"status":"success","data":` + productListing + `}`))
	}))

	_, err := client.ListProducts(context.Background(), ListParams{
		Page:   pagination.Params{Page: 2, PageSize: 12},
		Search: "whey",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != "12" || gotOffset != "12" {
		t.Fatalf("got limit=%s offset=%s, want 12/12", gotLimit, gotOffset)
	}
	if gotSearch != "whey" {
		t.Fatalf("got search=%q", gotSearch)
	}
}

func TestListProductsPageFlags(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{"count":1,"next":null,"previous":"/products","results":[]}}`))
	}))

	page, err := client.ListProducts(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.HasNext {
		t.Fatal("expected HasNext to be false")
	}
	if !page.HasPrevious {
		t.Fatal("expected HasPrevious to be true")
	}
	if page.Items == nil {
		t.Fatal("items must never be nil")
	}
}

func TestListProductsRewritesImages(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":` + productListing + `}`))
	}))

	page, err := client.ListProducts(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := page.Items[0].PhotoSrc; got != "https://cdn.example.com/media/whey.png" {
		t.Fatalf("got photo %q", got)
	}
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"status":"success","data":[]}`))
	}))

	_, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("got %d calls, want 3", calls.Load())
	}
}

func TestGetDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetProduct(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("got %v, want NOT_FOUND", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("got %d calls, want 1", calls.Load())
	}
}

func TestGetExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ListCategories(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUpstream {
		t.Fatalf("got %v, want UPSTREAM_ERROR", err)
	}
	// MaxRetries is 2, so one initial attempt plus two retries.
	if calls.Load() != 3 {
		t.Fatalf("got %d calls, want 3", calls.Load())
	}
}

func TestUnwrapRejectsMissingData(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success"}`))
	}))

	_, err := client.ListCategories(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeShape {
		t.Fatalf("got %v, want SHAPE_ERROR", err)
	}
}

func TestUnwrapRejectsNonJSON(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	}))

	_, err := client.ListCategories(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeShape {
		t.Fatalf("got %v, want SHAPE_ERROR", err)
	}
}

func TestSubmitCommentStatuses(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		wantCode pkgerrors.Code
	}{
		{"created", http.StatusCreated, ""},
		{"not found", http.StatusNotFound, pkgerrors.CodeNotFound},
		{"server error", http.StatusInternalServerError, pkgerrors.CodeUpstream},
		{"bad request", http.StatusBadRequest, pkgerrors.CodeValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("got method %s, want POST", r.Method)
				}
				w.WriteHeader(tc.status)
			}))

			err := client.SubmitComment(context.Background(), "whey-protein", NewComment{
				Stars: 5, Title: "great", Comment: "works",
			})
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.wantCode {
				t.Fatalf("got %v, want %s", err, tc.wantCode)
			}
		})
	}
}

func TestListCommentsStarsFilter(t *testing.T) {
	var gotStars string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStars = r.URL.Query().Get("stars")
		w.Write([]byte(`{"status":"success","data":{"count":0,"next":null,"previous":null,"results":[]}}`))
	}))

	if _, err := client.ListComments(context.Background(), "whey-protein", pagination.Params{}, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotStars != "5" {
		t.Fatalf("got stars=%q, want 5", gotStars)
	}

	if _, err := client.ListComments(context.Background(), "whey-protein", pagination.Params{}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotStars != "" {
		t.Fatalf("got stars=%q, want absent", gotStars)
	}
}

func TestFeaturedProductsDegradesOnFailure(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	products, err := client.FeaturedProducts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("got %d products, want 0", len(products))
	}
}

func TestBannersDeriveFromListing(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{"count":2,"next":null,"previous":null,"results":[
			{"id":"p1","name":"Whey Protein","slug":"whey-protein","short_explanation":"protein","price_info":{"total_price":549,"price_per_servings":18.3},"photo_src":"/media/whey.png","comment_count":1,"average_star":5},
			{"id":"p2","name":"Creatine","slug":"creatine","short_explanation":"strength","price_info":{"total_price":239,"price_per_servings":3.2},"photo_src":"","comment_count":1,"average_star":5}
		]}}`))
	}))

	banners, err := client.Banners(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(banners) != 2 {
		t.Fatalf("got %d banners, want 2", len(banners))
	}

	first := banners[0]
	if first.Title != "Whey Protein" || first.ButtonLink != "/urunler/whey-protein" {
		t.Fatalf("got %+v", first)
	}
	if first.BackgroundColor != "#007bff" || banners[1].BackgroundColor != "#28a745" {
		t.Fatal("expected alternating background colors")
	}
	if banners[1].Image != "https://placeholder.example.com/banner.png" {
		t.Fatalf("got image %q, want banner placeholder", banners[1].Image)
	}
}

func TestAllCommentsDegradesOnFailure(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	comments, err := client.AllComments(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("got %d comments, want 0", len(comments))
	}
}

func TestGetProductRewritesVariantPhotos(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{
			"id":"p1","name":"Whey Protein","slug":"whey-protein","short_explanation":"protein",
			"explanation":{"usage":"","features":"","description":"","nutritional_content":{"ingredients":[],"nutritional_facts":{"ingredients":[],"portion_sizes":[]},"amino_acid_facts":null}},
			"main_category_id":"c1","sub_category_id":"c2","tags":[],
			"variants":[{"id":"v1","size":{"pieces":1,"total_services":30},"aroma":"Chocolate","price":{"total_price":549,"price_per_servings":18.3},"photo_src":"/media/choc.png","is_available":true}],
			"comment_count":1,"average_star":5
		}}`))
	}))

	detail, err := client.GetProduct(context.Background(), "whey-protein")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := detail.Variants[0].PhotoSrc; got != "https://cdn.example.com/media/choc.png" {
		t.Fatalf("got photo %q", got)
	}
}
