package models

import (
	"time"

	"gorm.io/datatypes"
)

// Stock statuses understood by the storefront
const (
	StockInStock    = "instock"
	StockOutOfStock = "outofstock"
)

// Meta keys written on catalog entities
const (
	MetaBarcode = "_bizzio_barcode"
)

// CatalogProduct is a storefront product matched by SKU
type CatalogProduct struct {
	ID            uint                      `gorm:"primaryKey" json:"id"`
	SKU           string                    `gorm:"size:191;index" json:"sku"`
	Name          string                    `gorm:"not null" json:"name"`
	Description   string                    `gorm:"type:text" json:"description"`
	Price         float64                   `json:"price"`
	RegularPrice  float64                   `json:"regularPrice"`
	ManageStock   bool                      `json:"manageStock"`
	StockQuantity int                       `json:"stockQuantity"`
	StockStatus   string                    `gorm:"size:20" json:"stockStatus"`
	ThumbnailID   *uint                     `json:"thumbnailId,omitempty"`
	Gallery       datatypes.JSONSlice[uint] `json:"gallery"`
	Meta          datatypes.JSONMap         `json:"meta"`
	Categories    []CatalogCategory         `gorm:"many2many:product_categories;" json:"categories,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
	UpdatedAt     time.Time                 `json:"updatedAt"`
}

// TableName specifies the table name
func (CatalogProduct) TableName() string {
	return "catalog_products"
}

// CatalogCategory is a storefront product category, matched by slug
type CatalogCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ParentID    uint      `gorm:"not null;default:0;index" json:"parentId"`
	ThumbnailID *uint     `json:"thumbnailId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (CatalogCategory) TableName() string {
	return "catalog_categories"
}

// Attachment is a locally stored copy of a remote image
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      string    `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	OwnerID   uint      `gorm:"index" json:"ownerId"`
	OwnerType string    `gorm:"size:20" json:"ownerType"` // "product", "category"
	RemoteID  string    `gorm:"column:bizzio_image_id;size:191;index" json:"remoteId"`
	FileName  string    `json:"fileName"`
	Path      string    `json:"path"`
	MimeType  string    `gorm:"size:100" json:"mimeType"`
	Size      int64     `json:"size"`
	SourceURL string    `gorm:"type:text" json:"sourceUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (Attachment) TableName() string {
	return "attachments"
}
