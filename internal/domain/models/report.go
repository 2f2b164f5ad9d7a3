package models

import "time"

// WeeklyReport is the aggregated snapshot persisted for each scheduled report run.
type WeeklyReport struct {
	GeneratedAt    time.Time `bson:"generated_at" json:"generatedAt"`
	PeriodStart    time.Time `bson:"period_start" json:"periodStart"`
	PeriodEnd      time.Time `bson:"period_end" json:"periodEnd"`
	TotalInvested  float64   `bson:"total_invested" json:"totalInvested"`
	TotalSold      float64   `bson:"total_sold" json:"totalSold"`
	TotalProfit    float64   `bson:"total_profit" json:"totalProfit"`
	ItemsInStock   int       `bson:"items_in_stock" json:"itemsInStock"`
	ItemsListed    int       `bson:"items_listed" json:"itemsListed"`
	ItemsSold      int       `bson:"items_sold" json:"itemsSold"`
	SuccessRate    float64   `bson:"success_rate" json:"successRate"`
	GoalsOnTrack   int       `bson:"goals_on_track" json:"goalsOnTrack"`
	GoalsTotal     int       `bson:"goals_total" json:"goalsTotal"`
	SkippedRecords int       `bson:"skipped_records" json:"skippedRecords"`
	Text           string    `bson:"text" json:"text"`
}
