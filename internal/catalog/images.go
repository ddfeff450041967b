package catalog

import "strings"

// productImage rewrites a relative photo path to an absolute URL and
// substitutes the product placeholder for empty or literal-"null" values.
func (c *Client) productImage(src string) string {
	return rewriteImage(src, c.cfg.ImageBaseURL, c.cfg.ProductPlaceholderURL)
}

// bannerImage behaves like productImage with the banner placeholder.
func (c *Client) bannerImage(src string) string {
	return rewriteImage(src, c.cfg.ImageBaseURL, c.cfg.BannerPlaceholderURL)
}

func rewriteImage(src, base, placeholder string) string {
	if src == "" || src == "null" {
		return placeholder
	}
	if strings.HasPrefix(src, "http") {
		return src
	}
	if !strings.HasPrefix(src, "/") {
		src = "/" + src
	}
	return base + src
}
