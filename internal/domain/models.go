// Package domain provides core domain models and types.
package domain

// Tier represents one of the five ordered performance categories
type Tier string

const (
	TierSuperstar      Tier = "Superstar"
	TierTargetAchieved Tier = "Target Achieved"
	TierOnTrack        Tier = "On Track"
	TierNeedsBoost     Tier = "Needs Boost"
	TierRecoveryMode   Tier = "Recovery Mode"
)

// Tiers lists every tier from best to worst.
var Tiers = []Tier{
	TierSuperstar,
	TierTargetAchieved,
	TierOnTrack,
	TierNeedsBoost,
	TierRecoveryMode,
}

// Vehicle represents the racing badge shown for a performance level
type Vehicle string

const (
	VehicleFormula1  Vehicle = "🏎️" // Superstar
	VehicleSportsCar Vehicle = "🚗"  // Target achieved
	VehicleSUV       Vehicle = "🚙"  // On track
	VehicleVan       Vehicle = "🚐"  // Needs boost
	VehicleTruck     Vehicle = "🛻"  // Recovery mode
)

// UnassignedGroup is used when a record carries no group value
const UnassignedGroup = "Unassigned"

// Record is one cleaned spreadsheet row for a single consultant.
// SalesTarget is always > 0 and every numeric field is non-negative.
type Record struct {
	Name        string  `json:"name"`
	Group       string  `json:"group"`
	Row         int     `json:"row"` // 1-based data row in the source sheet
	SalesActual float64 `json:"sales_actual"`
	SalesTarget float64 `json:"sales_target"`
	AppsActual  float64 `json:"apps_actual"`
	AppsTarget  float64 `json:"apps_target"`
}

// Metrics holds everything derived from a single Record
type Metrics struct {
	Tier               Tier    `json:"tier"`
	Vehicle            Vehicle `json:"vehicle"`
	Color              string  `json:"color"`
	AchievementRate    float64 `json:"achievement_rate"`
	SecondaryRate      float64 `json:"secondary_rate"`
	GapToTarget        float64 `json:"gap_to_target"`
	OverallScore       float64 `json:"overall_score"`
	RacingSpeed        float64 `json:"racing_speed"`
	LapProgress        float64 `json:"lap_progress"`
	CompletedLaps      float64 `json:"completed_laps"`
	CurrentLapProgress float64 `json:"current_lap_progress"`
}

// Performer is a scored record positioned within one view (overall or cohort)
type Performer struct {
	Record
	Metrics
	Rank          int     `json:"rank"`
	TrackPosition float64 `json:"track_position"`
}

// TeamAggregate summarises all performers sharing a group value
type TeamAggregate struct {
	Group           string  `json:"group"`
	Cohort          string  `json:"cohort,omitempty"`
	Tier            Tier    `json:"tier"`
	Vehicle         Vehicle `json:"vehicle"`
	MemberCount     int     `json:"member_count"`
	SalesActual     float64 `json:"sales_actual"`
	SalesTarget     float64 `json:"sales_target"`
	AppsActual      float64 `json:"apps_actual"`
	AppsTarget      float64 `json:"apps_target"`
	AvgScore        float64 `json:"avg_score"`
	AchievementRate float64 `json:"team_achievement_rate"`
	AppsRate        float64 `json:"team_apps_rate"`
	GapToTarget     float64 `json:"gap_to_target"`
}

// TierDistribution counts performers per tier
type TierDistribution map[Tier]int

// CompanyMetrics is the rollup over every retained record
type CompanyMetrics struct {
	Distribution      TierDistribution `json:"distribution"`
	TopPerformer      string           `json:"top_performer"`
	TopPerformerGroup string           `json:"top_performer_group"`
	TotalSalesActual  float64          `json:"total_sales_actual"`
	TotalSalesTarget  float64          `json:"total_sales_target"`
	TotalAppsActual   float64          `json:"total_apps_actual"`
	TotalAppsTarget   float64          `json:"total_apps_target"`
	SalesAchievement  float64          `json:"overall_sales_achievement"`
	AppsAchievement   float64          `json:"overall_apps_achievement"`
	AvgScore          float64          `json:"avg_score"`
	RecordCount       int              `json:"record_count"`
	TeamCount         int              `json:"team_count"`
}
