package catalog

import "github.com/shopspring/decimal"

// PriceInfo is the upstream price breakdown attached to products and
// variants. Discount fields are null when no promotion applies.
type PriceInfo struct {
	Profit             *decimal.Decimal `json:"profit"`
	TotalPrice         decimal.Decimal  `json:"total_price"`
	DiscountedPrice    *decimal.Decimal `json:"discounted_price"`
	PricePerServing    decimal.Decimal  `json:"price_per_servings"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
}

type CategoryLeaf struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Order int    `json:"order"`
}

type CategoryChild struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Order       int            `json:"order"`
	SubChildren []CategoryLeaf `json:"sub_children,omitempty"`
}

type TopSeller struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	PictureSrc  string `json:"picture_src"`
}

type Category struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	Order      int             `json:"order"`
	Children   []CategoryChild `json:"children"`
	TopSellers []TopSeller     `json:"top_sellers"`
}

type Product struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	ShortExplanation string    `json:"short_explanation"`
	PriceInfo        PriceInfo `json:"price_info"`
	PhotoSrc         string    `json:"photo_src"`
	CommentCount     int       `json:"comment_count"`
	AverageStar      float64   `json:"average_star"`
}

// BestSeller is a product-like record from the best-sellers endpoint.
// The upstream commonly omits the id, so the name is the UI identity and
// the slug may be empty.
type BestSeller struct {
	Name             string    `json:"name"`
	Slug             string    `json:"slug,omitempty"`
	ShortExplanation string    `json:"short_explanation"`
	PriceInfo        PriceInfo `json:"price_info"`
	PhotoSrc         string    `json:"photo_src"`
	CommentCount     int       `json:"comment_count"`
	AverageStar      float64   `json:"average_star"`
}

type VariantSize struct {
	Gram          *int `json:"gram,omitempty"`
	Pieces        int  `json:"pieces"`
	TotalServices int  `json:"total_services"`
}

type Variant struct {
	ID          string      `json:"id"`
	Size        VariantSize `json:"size"`
	Aroma       string      `json:"aroma"`
	Price       PriceInfo   `json:"price"`
	PhotoSrc    string      `json:"photo_src"`
	IsAvailable bool        `json:"is_available"`
}

type IngredientValue struct {
	Aroma *string `json:"aroma"`
	Value string  `json:"value"`
}

type NamedAmounts struct {
	Name    string   `json:"name"`
	Amounts []string `json:"amounts"`
}

type FactTable struct {
	Ingredients  []NamedAmounts `json:"ingredients"`
	PortionSizes []string       `json:"portion_sizes"`
}

type NutritionalContent struct {
	Ingredients      []IngredientValue `json:"ingredients"`
	NutritionalFacts FactTable         `json:"nutritional_facts"`
	AminoAcidFacts   *FactTable        `json:"amino_acid_facts"`
}

type Explanation struct {
	Usage              string             `json:"usage"`
	Features           string             `json:"features"`
	Description        string             `json:"description"`
	NutritionalContent NutritionalContent `json:"nutritional_content"`
}

type ProductDetail struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Slug             string      `json:"slug"`
	ShortExplanation string      `json:"short_explanation"`
	Explanation      Explanation `json:"explanation"`
	MainCategoryID   string      `json:"main_category_id"`
	SubCategoryID    string      `json:"sub_category_id"`
	Tags             []string    `json:"tags"`
	Variants         []Variant   `json:"variants"`
	CommentCount     int         `json:"comment_count"`
	AverageStar      float64     `json:"average_star"`
}

type CommentUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Comment struct {
	ID        string      `json:"id"`
	Stars     int         `json:"stars"`
	Title     string      `json:"title"`
	Comment   string      `json:"comment"`
	CreatedAt string      `json:"created_at"`
	User      CommentUser `json:"user"`
}

// NewComment is the payload for submitting a product review.
type NewComment struct {
	Stars   int    `json:"stars"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// Statistics is the rating histogram for one product.
type Statistics struct {
	TotalRatings       int         `json:"total_ratings"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

// Banner is a promotional slide derived from the product listing.
type Banner struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	Image           string `json:"image"`
	ButtonText      string `json:"button_text,omitempty"`
	ButtonLink      string `json:"button_link,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
}

// ProductPage is a normalized slice of the product listing.
type ProductPage struct {
	Items       []Product `json:"items"`
	TotalCount  int       `json:"total_count"`
	HasNext     bool      `json:"has_next"`
	HasPrevious bool      `json:"has_previous"`
	Page        int       `json:"page"`
	PageSize    int       `json:"page_size"`
}

// CommentPage is a normalized slice of a product's comment listing.
type CommentPage struct {
	Items       []Comment `json:"items"`
	TotalCount  int       `json:"total_count"`
	HasNext     bool      `json:"has_next"`
	HasPrevious bool      `json:"has_previous"`
	Page        int       `json:"page"`
	PageSize    int       `json:"page_size"`
}

// listResponse is the upstream pagination wrapper.
type listResponse[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
