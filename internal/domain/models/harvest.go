package models

import "time"

// HarvestRecord is the immutable outcome of one closed planting cycle.
// One record is appended to the plot's history per recordHarvest call and is
// never updated afterwards.
type HarvestRecord struct {
	ID                string    `bson:"_id" json:"id"`
	PlotID            string    `bson:"plot_id" json:"plot_id"`
	VegetableName     string    `bson:"vegetable_name" json:"vegetable_name"`
	PlantDate         time.Time `bson:"plant_date" json:"plant_date"`
	HarvestDueDate    time.Time `bson:"harvest_due_date" json:"harvest_due_date"`
	ActualHarvestDate time.Time `bson:"actual_harvest_date" json:"actual_harvest_date"`
	Quantity          int       `bson:"quantity" json:"quantity"`
	AmountKg          float64   `bson:"amount_kg" json:"amount_kg"`
	Income            float64   `bson:"income" json:"income"`
	Expense           float64   `bson:"expense" json:"expense"`
	Note              string    `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}

// Profit is always computed on read so it can never go stale.
func (r HarvestRecord) Profit() float64 {
	return r.Income - r.Expense
}

// HistoryFilter narrows a history query. All provided conditions must hold.
// Vegetable matching is case-insensitive substring matching.
type HistoryFilter struct {
	VegetableNameContains string
	PlantDateFrom         *time.Time
	PlantDateTo           *time.Time
}

// HistorySummary holds running totals over a set of harvest records.
type HistorySummary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	TotalProfit  float64 `json:"total_profit"`
}
