package models

// All returns every model managed by AutoMigrate
func All() []interface{} {
	return []interface{}{
		&Option{},
		&SyncSnapshot{},
		&SyncHistory{},
		&CatalogCategory{},
		&CatalogProduct{},
		&Attachment{},
	}
}
