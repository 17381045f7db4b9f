package service

import "math"

// EcoStatus represents a user's gamification level derived from eco-points.
// The level never demotes: it is a pure threshold function over the all-time
// point total.
type EcoStatus struct {
	LevelName     string  `json:"level_name"`     // Seedling, Sprout, Steward, Guardian, Champion, Legend
	NextLevel     string  `json:"next_level"`     // Next level to achieve, or "Max Level"
	CurrentPoints int     `json:"current_points"` // All-time total points
	TargetPoints  int     `json:"target_points"`  // Points needed for next level
	Progress      float64 `json:"progress"`       // Progress percentage to next level (0-100)
}

// Level thresholds over all-time eco-points.
const (
	PointsLegend   = 20000
	PointsChampion = 8000
	PointsGuardian = 3000
	PointsSteward  = 600
	PointsSprout   = 100
	PointsSeedling = 0
)

// GetEcoStatus calculates the level status for an all-time point total.
func GetEcoStatus(points int) EcoStatus {
	var status EcoStatus
	status.CurrentPoints = points

	switch {
	case points >= PointsLegend:
		status.LevelName = "Legend"
		status.NextLevel = "Max Level"
		status.TargetPoints = PointsLegend
		status.Progress = 100

	case points >= PointsChampion:
		status.LevelName = "Champion"
		status.NextLevel = "Legend"
		status.TargetPoints = PointsLegend
		status.Progress = (float64(points) / float64(PointsLegend)) * 100

	case points >= PointsGuardian:
		status.LevelName = "Guardian"
		status.NextLevel = "Champion"
		status.TargetPoints = PointsChampion
		status.Progress = (float64(points) / float64(PointsChampion)) * 100

	case points >= PointsSteward:
		status.LevelName = "Steward"
		status.NextLevel = "Guardian"
		status.TargetPoints = PointsGuardian
		status.Progress = (float64(points) / float64(PointsGuardian)) * 100

	case points >= PointsSprout:
		status.LevelName = "Sprout"
		status.NextLevel = "Steward"
		status.TargetPoints = PointsSteward
		status.Progress = (float64(points) / float64(PointsSteward)) * 100

	default:
		status.LevelName = "Seedling"
		status.NextLevel = "Sprout"
		status.TargetPoints = PointsSprout
		if points == 0 {
			status.Progress = 0
		} else {
			status.Progress = (float64(points) / float64(PointsSprout)) * 100
		}
	}

	// Round progress to 2 decimal places
	status.Progress = math.Round(status.Progress*100) / 100

	return status
}
