package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/suppcart/storefront/api/responses"
	"github.com/suppcart/storefront/api/validators"
	"github.com/suppcart/storefront/internal/catalog"
	pkgerrors "github.com/suppcart/storefront/pkg/errors"
	"github.com/suppcart/storefront/pkg/logger"
	"github.com/suppcart/storefront/pkg/pagination"
)

// CatalogReader is the upstream surface the catalog controller consumes.
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListProducts(ctx context.Context, params catalog.ListParams) (catalog.ProductPage, error)
	BestSellers(ctx context.Context) ([]catalog.BestSeller, error)
	GetProduct(ctx context.Context, slug string) (catalog.ProductDetail, error)
	ListComments(ctx context.Context, slug string, page pagination.Params, stars int) (catalog.CommentPage, error)
	Statistics(ctx context.Context, slug string) (catalog.Statistics, error)
	SubmitComment(ctx context.Context, slug string, comment catalog.NewComment) error
	AllComments(ctx context.Context) ([]catalog.Comment, error)
	FeaturedProducts(ctx context.Context) ([]catalog.Product, error)
	Banners(ctx context.Context) ([]catalog.Banner, error)
}

// CatalogController proxies the upstream product API.
type CatalogController struct {
	catalog CatalogReader
	logg    *logger.Logger
}

func NewCatalogController(reader CatalogReader, logg *logger.Logger) (*CatalogController, error) {
	if reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog reader required")
	}
	return &CatalogController{catalog: reader, logg: logg}, nil
}

func (c *CatalogController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.ListCategories(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, categories)
}

func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	query := r.URL.Query()
	products, err := c.catalog.ListProducts(r.Context(), catalog.ListParams{
		Page:         page,
		Search:       query.Get("search"),
		MainCategory: query.Get("main_category"),
		SubCategory:  query.Get("sub_category"),
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, products)
}

func (c *CatalogController) BestSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := c.catalog.BestSellers(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, sellers)
}

func (c *CatalogController) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.FeaturedProducts(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, products)
}

func (c *CatalogController) Banners(w http.ResponseWriter, r *http.Request) {
	banners, err := c.catalog.Banners(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, banners)
}

func (c *CatalogController) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	detail, err := c.catalog.GetProduct(r.Context(), slug)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, detail)
}

func (c *CatalogController) ListComments(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := pageParams(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	stars, err := validators.QueryInt(r, "stars", 0)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if stars < 0 || stars > 5 {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeValidation, "stars must be between 1 and 5"))
		return
	}

	comments, err := c.catalog.ListComments(r.Context(), slug, page, stars)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, comments)
}

func (c *CatalogController) Statistics(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	stats, err := c.catalog.Statistics(r.Context(), slug)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, stats)
}

type submitCommentRequest struct {
	Stars   int    `json:"stars" validate:"required,min=1,max=5"`
	Title   string `json:"title" validate:"required,max=120"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

func (c *CatalogController) SubmitComment(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var body submitCommentRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	err := c.catalog.SubmitComment(r.Context(), slug, catalog.NewComment{
		Stars:   body.Stars,
		Title:   body.Title,
		Comment: body.Comment,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "submitted"})
}

func (c *CatalogController) AllComments(w http.ResponseWriter, r *http.Request) {
	comments, err := c.catalog.AllComments(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, comments)
}

func pageParams(r *http.Request) (pagination.Params, error) {
	page, err := validators.QueryInt(r, "page", 1)
	if err != nil {
		return pagination.Params{}, err
	}
	size, err := validators.QueryInt(r, "page_size", pagination.DefaultPageSize)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, PageSize: size}, nil
}
