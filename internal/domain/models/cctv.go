package models

import "time"

// Camera is a registered CCTV stream attached to a plot.
type Camera struct {
	ID        string    `bson:"_id" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	PlotID    string    `bson:"plot_id,omitempty" json:"plot_id,omitempty"`
	Name      string    `bson:"name" json:"name"`
	StreamURL string    `bson:"stream_url" json:"stream_url"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
