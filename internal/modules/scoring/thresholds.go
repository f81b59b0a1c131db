// Package scoring derives achievement rates, overall scores and the
// categorical tier, vehicle and colour bands from a cleaned record.
package scoring

import "github.com/salesrace/pitwall/internal/domain"

// Band is one row of the threshold table. Min is an inclusive lower bound.
type Band struct {
	Min     float64        `json:"min"`
	Tier    domain.Tier    `json:"tier"`
	Vehicle domain.Vehicle `json:"vehicle"`
	Color   string         `json:"color"`
}

// Bands is the shared threshold table, highest first. The last band has no
// lower bound and catches everything below the others.
var Bands = []Band{
	{Min: 120, Tier: domain.TierSuperstar, Vehicle: domain.VehicleFormula1, Color: "#FF6B35"},
	{Min: 100, Tier: domain.TierTargetAchieved, Vehicle: domain.VehicleSportsCar, Color: "#4ECDC4"},
	{Min: 80, Tier: domain.TierOnTrack, Vehicle: domain.VehicleSUV, Color: "#45B7D1"},
	{Min: 60, Tier: domain.TierNeedsBoost, Vehicle: domain.VehicleVan, Color: "#FFA07A"},
	{Tier: domain.TierRecoveryMode, Vehicle: domain.VehicleTruck, Color: "#FF6B6B"},
}

// band returns the first band whose lower bound score reaches.
func band(score float64) Band {
	last := len(Bands) - 1
	for _, b := range Bands[:last] {
		if score >= b.Min {
			return b
		}
	}
	return Bands[last]
}

// ClassifyTier maps a score onto its performance tier.
func ClassifyTier(score float64) domain.Tier {
	return band(score).Tier
}

// AssignVehicle maps a score onto its vehicle badge.
func AssignVehicle(score float64) domain.Vehicle {
	return band(score).Vehicle
}

// Color maps a score onto its display colour.
func Color(score float64) string {
	return band(score).Color
}
