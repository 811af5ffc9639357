package catalog

import (
	"context"

	"github.com/xelth-com/bizziosync/internal/models"
)

// Store is the storefront catalog the importer writes into. Lookups
// return (nil, nil) when nothing matches.
type Store interface {
	FindProductBySKU(ctx context.Context, sku string) (*models.CatalogProduct, error)
	SaveProduct(ctx context.Context, p *models.CatalogProduct) error
	AddProductCategory(ctx context.Context, productID, categoryID uint) error
	SetProductImages(ctx context.Context, productID, thumbnailID uint, gallery []uint) error

	FindCategoryBySlug(ctx context.Context, slug string) (*models.CatalogCategory, error)
	SaveCategory(ctx context.Context, c *models.CatalogCategory) error
	SetCategoryThumbnail(ctx context.Context, categoryID, attachmentID uint) error

	FindAttachmentByRemoteID(ctx context.Context, remoteID string) (*models.Attachment, error)
	CreateAttachment(ctx context.Context, a *models.Attachment) error
}
