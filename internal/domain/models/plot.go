package models

import "time"

// AreaUnit enumerates the land units supported by the app.
type AreaUnit string

const (
	AreaUnitRai         AreaUnit = "rai"
	AreaUnitNgan        AreaUnit = "ngan"
	AreaUnitSquareMeter AreaUnit = "sqm"
)

// Valid reports whether the unit is one of the supported values.
func (u AreaUnit) Valid() bool {
	switch u {
	case AreaUnitRai, AreaUnitNgan, AreaUnitSquareMeter:
		return true
	}
	return false
}

// PlotStatus is the lifecycle state of a plot.
type PlotStatus string

const (
	PlotStatusEmpty   PlotStatus = "empty"
	PlotStatusGrowing PlotStatus = "growing"
)

// Plot is a unit of cultivable land tracked for one owner.
//
// Invariant: CurrentPlanting is non-nil exactly when Status is growing.
// Status and CurrentPlanting are owned by the planting engine and the harvest
// ledger; plot CRUD never touches them directly.
type Plot struct {
	ID              string          `bson:"_id" json:"id"`
	OwnerID         string          `bson:"owner_id" json:"owner_id"`
	Name            string          `bson:"name" json:"name"`
	Area            float64         `bson:"area" json:"area"`
	AreaUnit        AreaUnit        `bson:"area_unit" json:"area_unit"`
	ImageRef        string          `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
	Status          PlotStatus      `bson:"status" json:"status"`
	CurrentPlanting *PlantingRecord `bson:"current_planting,omitempty" json:"current_planting,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updated_at"`
}

// Growing reports whether the plot has an active planting cycle.
func (p *Plot) Growing() bool {
	return p.Status == PlotStatusGrowing && p.CurrentPlanting != nil
}

// PlantingRecord is the active cycle embedded in a growing plot. Its fields
// are copied into a HarvestRecord when the cycle closes.
//
// Invariant: HarvestDueDate >= PlantDate.
type PlantingRecord struct {
	VegetableName  string    `bson:"vegetable_name" json:"vegetable_name"`
	PlantDate      time.Time `bson:"plant_date" json:"plant_date"`
	HarvestDueDate time.Time `bson:"harvest_due_date" json:"harvest_due_date"`
	Quantity       int       `bson:"quantity" json:"quantity"`
}
