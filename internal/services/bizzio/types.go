package bizzio

import (
	"net/url"
	"path"
	"strings"
)

// AllowedImageExtensions lists the file types accepted from the ERP
var AllowedImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// Image is a remote file descriptor (FI element)
type Image struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Extension returns the lowercase file extension taken from Name, or from
// the URI path when Name has none.
func (i Image) Extension() string {
	if ext := extension(i.Name); ext != "" {
		return ext
	}
	if u, err := url.Parse(i.URI); err == nil && u.Path != "" {
		return extension(u.Path)
	}
	return extension(i.URI)
}

// Allowed reports whether the image has an accepted extension
func (i Image) Allowed() bool {
	return AllowedImageExtensions[i.Extension()]
}

func extension(name string) string {
	ext := path.Ext(strings.TrimSpace(name))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Article is one ERP product (AI element)
type Article struct {
	Name         string   `json:"name"`
	Barcode      string   `json:"barcode"`
	SalePrice    float64  `json:"sale_price"`
	Quantity     int      `json:"quantity"`
	Description  string   `json:"description,omitempty"`
	CategoryRefs []string `json:"category_refs,omitempty"`
	Images       []Image  `json:"images,omitempty"`
	ExternalURLs []string `json:"external_urls,omitempty"`
}

// Category is one ERP site group (SG element)
type Category struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	Name     string `json:"name"`
	Note     string `json:"note,omitempty"`
	Image    *Image `json:"image,omitempty"`
}

// ArticleOptions are the GetArticles request flags
type ArticleOptions struct {
	AvailableOnly     bool
	IsCars            bool
	IsFiles           bool
	IsQtyByWarehouses bool
}

// DefaultArticleOptions requests every article with its files
func DefaultArticleOptions() ArticleOptions {
	return ArticleOptions{IsFiles: true}
}
