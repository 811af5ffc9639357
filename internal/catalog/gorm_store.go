package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/xelth-com/bizziosync/internal/database"
	"github.com/xelth-com/bizziosync/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps the catalog in the application database
type GormStore struct {
	db *database.DB
}

// NewGormStore creates a catalog store
func NewGormStore(db *database.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindProductBySKU(ctx context.Context, sku string) (*models.CatalogProduct, error) {
	if sku == "" {
		return nil, nil
	}
	var p models.CatalogProduct
	err := s.db.WithContext(ctx).Where("sku = ?", sku).Order("id").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product %q: %w", sku, err)
	}
	return &p, nil
}

func (s *GormStore) SaveProduct(ctx context.Context, p *models.CatalogProduct) error {
	// Categories are managed through AddProductCategory only
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return fmt.Errorf("failed to save product %q: %w", p.SKU, err)
	}
	return nil
}

func (s *GormStore) AddProductCategory(ctx context.Context, productID, categoryID uint) error {
	row := map[string]interface{}{
		"catalog_product_id":  productID,
		"catalog_category_id": categoryID,
	}
	err := s.db.WithContext(ctx).
		Table("product_categories").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to add product %d to category %d: %w", productID, categoryID, err)
	}
	return nil
}

func (s *GormStore) SetProductImages(ctx context.Context, productID, thumbnailID uint, gallery []uint) error {
	updates := map[string]interface{}{
		"thumbnail_id": thumbnailID,
		"gallery":      datatypes.NewJSONSlice(gallery),
	}
	if len(gallery) == 0 {
		updates["gallery"] = datatypes.NewJSONSlice([]uint{})
	}
	err := s.db.WithContext(ctx).Model(&models.CatalogProduct{}).Where("id = ?", productID).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to set images of product %d: %w", productID, err)
	}
	return nil
}

func (s *GormStore) FindCategoryBySlug(ctx context.Context, slug string) (*models.CatalogCategory, error) {
	if slug == "" {
		return nil, nil
	}
	var c models.CatalogCategory
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category %q: %w", slug, err)
	}
	return &c, nil
}

func (s *GormStore) SaveCategory(ctx context.Context, c *models.CatalogCategory) error {
	if c.Slug == "" {
		return fmt.Errorf("category %q has an empty slug", c.Name)
	}
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("failed to save category %q: %w", c.Slug, err)
	}
	return nil
}

func (s *GormStore) SetCategoryThumbnail(ctx context.Context, categoryID, attachmentID uint) error {
	err := s.db.WithContext(ctx).Model(&models.CatalogCategory{}).
		Where("id = ?", categoryID).
		Update("thumbnail_id", attachmentID).Error
	if err != nil {
		return fmt.Errorf("failed to set thumbnail of category %d: %w", categoryID, err)
	}
	return nil
}

func (s *GormStore) FindAttachmentByRemoteID(ctx context.Context, remoteID string) (*models.Attachment, error) {
	if remoteID == "" {
		return nil, nil
	}
	var a models.Attachment
	err := s.db.WithContext(ctx).Where("bizzio_image_id = ?", remoteID).Order("id").First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find attachment %q: %w", remoteID, err)
	}
	return &a, nil
}

func (s *GormStore) CreateAttachment(ctx context.Context, a *models.Attachment) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return nil
}

// ProductCategoryIDs lists the category memberships of a product
func (s *GormStore) ProductCategoryIDs(ctx context.Context, productID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Table("product_categories").
		Where("catalog_product_id = ?", productID).
		Order("catalog_category_id").
		Pluck("catalog_category_id", &ids).Error
	return ids, err
}
