package models

import "time"

// CatalogKind distinguishes the two reference catalogs maintained by admins.
type CatalogKind string

const (
	CatalogDisease CatalogKind = "disease"
	CatalogPest    CatalogKind = "pest"
)

// CatalogEntry is a disease or pest reference record. Both catalogs share the
// same shape and are stored in separate collections.
type CatalogEntry struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	ImageRef    string    `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
