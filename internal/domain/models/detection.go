package models

import "time"

// DetectionRecord is the stored result of one AI detection upload. The image
// itself lives in object storage; only the reference is kept here.
type DetectionRecord struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	ImageRef   string    `bson:"image_ref" json:"image_ref"`
	Label      string    `bson:"label" json:"label"`
	Confidence float64   `bson:"confidence" json:"confidence"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
