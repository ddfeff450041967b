package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/suppcart/storefront/pkg/config"
	pkgerrors "github.com/suppcart/storefront/pkg/errors"
	"github.com/suppcart/storefront/pkg/logger"
	"github.com/suppcart/storefront/pkg/pagination"
)

const retryBaseDelay = 200 * time.Millisecond

// Client is a typed client for the upstream product API. All reads
// tolerate the API's inconsistent envelope nesting and idempotent calls
// retry transient failures.
type Client struct {
	cfg  config.CatalogConfig
	http *http.Client
	logg *logger.Logger
}

// NewClient builds a catalog client against the configured upstream.
func NewClient(cfg config.CatalogConfig, logg *logger.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		logg: logg,
	}
}

// ListParams filters the product listing.
type ListParams struct {
	Page         pagination.Params
	Search       string
	MainCategory string
	SubCategory  string
}

// ListCategories fetches the category tree with nested subcategories and
// top-seller previews.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	payload, err := c.get(ctx, "/categories", nil)
	if err != nil {
		return nil, err
	}
	var categories []Category
	if err := json.Unmarshal(payload, &categories); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeShape, err, "decoding categories")
	}
	return categories, nil
}

// ListProducts fetches one page of the product listing. The upstream is
// offset-based: offset = (page-1) * pageSize.
func (c *Client) ListProducts(ctx context.Context, params ListParams) (ProductPage, error) {
	page := params.Page.Normalize()

	query := url.Values{}
	query.Set("limit", strconv.Itoa(page.PageSize))
	query.Set("offset", strconv.Itoa(page.Offset()))
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.MainCategory != "" {
		query.Set("main_category", params.MainCategory)
	}
	if params.SubCategory != "" {
		query.Set("sub_category", params.SubCategory)
	}

	payload, err := c.get(ctx, "/products", query)
	if err != nil {
		return ProductPage{}, err
	}

	var list listResponse[Product]
	if err := json.Unmarshal(payload, &list); err != nil {
		return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeShape, err, "decoding product listing")
	}

	items := list.Results
	if items == nil {
		items = []Product{}
	}
	for i := range items {
		items[i].PhotoSrc = c.productImage(items[i].PhotoSrc)
	}

	return ProductPage{
		Items:       items,
		TotalCount:  list.Count,
		HasNext:     list.Next != nil,
		HasPrevious: list.Previous != nil,
		Page:        page.Page,
		PageSize:    page.PageSize,
	}, nil
}

// BestSellers fetches the best-seller preview list.
func (c *Client) BestSellers(ctx context.Context) ([]BestSeller, error) {
	payload, err := c.get(ctx, "/products/best-sellers", nil)
	if err != nil {
		return nil, err
	}
	var sellers []BestSeller
	if err := json.Unmarshal(payload, &sellers); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeShape, err, "decoding best sellers")
	}
	for i := range sellers {
		sellers[i].PhotoSrc = c.productImage(sellers[i].PhotoSrc)
	}
	return sellers, nil
}

// GetProduct fetches the detail record for one product slug.
func (c *Client) GetProduct(ctx context.Context, slug string) (ProductDetail, error) {
	payload, err := c.get(ctx, "/products/"+url.PathEscape(slug), nil)
	if err != nil {
		return ProductDetail{}, err
	}
	var detail ProductDetail
	if err := json.Unmarshal(payload, &detail); err != nil {
		return ProductDetail{}, pkgerrors.Wrap(pkgerrors.CodeShape, err, "decoding product detail")
	}
	for i := range detail.Variants {
		detail.Variants[i].PhotoSrc = c.productImage(detail.Variants[i].PhotoSrc)
	}
	return detail, nil
}

// ListComments fetches one page of a product's comments, optionally
// filtered to a star rating (stars 1-5; zero means no filter).
func (c *Client) ListComments(ctx context.Context, slug string, page pagination.Params, stars int) (CommentPage, error) {
	page = page.Normalize()

	query := url.Values{}
	query.Set("limit", strconv.Itoa(page.PageSize))
	query.Set("offset", strconv.Itoa(page.Offset()))
	if stars > 0 {
		query.Set("stars", strconv.Itoa(stars))
	}

	payload, err := c.get(ctx, "/products/"+url.PathEscape(slug)+"/comments", query)
	if err != nil {
		return CommentPage{}, err
	}

	var list listResponse[Comment]
	if err := json.Unmarshal(payload, &list); err != nil {
		return CommentPage{}, pkgerrors.Wrap(pkgerrors.CodeShape, err, "decoding comments")
	}

	items := list.Results
	if items == nil {
		items = []Comment{}
	}
	return CommentPage{
		Items:       items,
		TotalCount:  list.Count,
		HasNext:     list.Next != nil,
		HasPrevious: list.Previous != nil,
		Page:        page.Page,
		PageSize:    page.PageSize,
	}, nil
}

// Statistics fetches the rating histogram for one product.
func (c *Client) Statistics(ctx context.Context, slug string) (Statistics, error) {
	payload, err := c.get(ctx, "/products/"+url.PathEscape(slug)+"/rate-statistics", nil)
	if err != nil {
		return Statistics{}, err
	}
	var stats Statistics
	if err := json.Unmarshal(payload, &stats); err != nil {
		return Statistics{}, pkgerrors.Wrap(pkgerrors.CodeShape, err, "decoding statistics")
	}
	return stats, nil
}

// SubmitComment posts a review for the product. Submissions are never
// retried.
func (c *Client) SubmitComment(ctx context.Context, slug string, comment NewComment) error {
	body, err := json.Marshal(comment)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding comment")
	}

	endpoint := c.cfg.BaseURL + "/products/" + url.PathEscape(slug) + "/comments"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building comment request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "submitting comment")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	case resp.StatusCode >= 500:
		return pkgerrors.New(pkgerrors.CodeUpstream, fmt.Sprintf("comment rejected with status %d", resp.StatusCode))
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "comment rejected by the catalog")
	}
}

// AllComments fetches recent comments across every product. Failures
// degrade to an empty list so home-page widgets never break the view.
func (c *Client) AllComments(ctx context.Context) ([]Comment, error) {
	query := url.Values{}
	query.Set("limit", "1000")
	query.Set("offset", "0")

	payload, err := c.get(ctx, "/products/comments", query)
	if err != nil {
		c.warn(ctx, "loading recent comments failed", err)
		return []Comment{}, nil
	}
	var list listResponse[Comment]
	if err := json.Unmarshal(payload, &list); err != nil {
		c.warn(ctx, "decoding recent comments failed", err)
		return []Comment{}, nil
	}
	if list.Results == nil {
		return []Comment{}, nil
	}
	return list.Results, nil
}

// FeaturedProducts derives a bounded home-page selection from the general
// listing. Failures degrade to an empty list.
func (c *Client) FeaturedProducts(ctx context.Context) ([]Product, error) {
	page, err := c.ListProducts(ctx, ListParams{
		Page: pagination.Params{Page: 1, PageSize: c.cfg.FeaturedLimit},
	})
	if err != nil {
		c.warn(ctx, "loading featured products failed", err)
		return []Product{}, nil
	}
	return page.Items, nil
}

// Banners derives promotional slides from the first products of the
// general listing. Failures degrade to an empty list.
func (c *Client) Banners(ctx context.Context) ([]Banner, error) {
	page, err := c.ListProducts(ctx, ListParams{
		Page: pagination.Params{Page: 1, PageSize: c.cfg.BannerLimit},
	})
	if err != nil {
		c.warn(ctx, "loading banners failed", err)
		return []Banner{}, nil
	}

	banners := make([]Banner, 0, len(page.Items))
	for i, product := range page.Items {
		image := c.bannerImage(product.PhotoSrc)
		if image == c.cfg.ProductPlaceholderURL {
			// Listing already substituted the product placeholder; banners
			// use their own.
			image = c.cfg.BannerPlaceholderURL
		}
		banners = append(banners, Banner{
			ID:              product.ID,
			Title:           product.Name,
			Subtitle:        product.ShortExplanation,
			Image:           image,
			ButtonText:      "View product",
			ButtonLink:      "/urunler/" + product.Slug,
			BackgroundColor: bannerColor(i),
		})
	}
	return banners, nil
}

// get performs an idempotent upstream read, retrying transient failures,
// and returns the unwrapped payload.
func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body []byte
	backoff := retry.WithMaxRetries(c.cfg.MaxRetries, retry.NewFibonacci(retryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "calling catalog"))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			io.Copy(io.Discard, resp.Body)
			return pkgerrors.New(pkgerrors.CodeNotFound, "catalog resource not found")
		case resp.StatusCode >= 500:
			io.Copy(io.Discard, resp.Body)
			return retry.RetryableError(pkgerrors.New(pkgerrors.CodeUpstream,
				fmt.Sprintf("catalog returned status %d", resp.StatusCode)))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			io.Copy(io.Discard, resp.Body)
			return pkgerrors.New(pkgerrors.CodeUpstream,
				fmt.Sprintf("catalog returned status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "reading catalog response"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return unwrap(body)
}

// envelope is the upstream success wrapper. Responses have been observed
// both as {status,data:{...}} and {status,data:{status,data:{...}}}; the
// deeper shape is attempted first.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func unwrap(body []byte) (json.RawMessage, error) {
	var outer envelope
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeShape, err, "decoding catalog envelope")
	}
	if !present(outer.Data) {
		return nil, pkgerrors.New(pkgerrors.CodeShape, "catalog envelope missing data")
	}

	var inner envelope
	if err := json.Unmarshal(outer.Data, &inner); err == nil && present(inner.Data) {
		return inner.Data, nil
	}
	return outer.Data, nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func bannerColor(index int) string {
	if index%2 == 0 {
		return "#007bff"
	}
	return "#28a745"
}

func (c *Client) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), msg)
}
