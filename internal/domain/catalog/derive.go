package catalog

import "github.com/teamplan/alloc/internal/domain/model"

// Hour boundaries for the complexity tiers: low is at most 8 hours, medium
// runs 9-20, high is anything above.
const (
	lowHoursCeiling     = 8
	mediumHoursCeiling  = 20
	mediumPriorityFloor = 10
)

// Representative estimates used when a template carries only a tier.
var complexityHours = map[model.Complexity]int{
	model.ComplexityLow:    8,
	model.ComplexityMedium: 16,
	model.ComplexityHigh:   32,
}

// HoursForComplexity maps a tier to its representative hour estimate.
func HoursForComplexity(c model.Complexity) int {
	if h, ok := complexityHours[c]; ok {
		return h
	}
	return complexityHours[model.ComplexityMedium]
}

// ComplexityForHours maps an hour estimate back to a tier.
func ComplexityForHours(hours int) model.Complexity {
	switch {
	case hours > mediumHoursCeiling:
		return model.ComplexityHigh
	case hours > lowHoursCeiling:
		return model.ComplexityMedium
	default:
		return model.ComplexityLow
	}
}

// PriorityForHours mirrors the inference used for persisted tasks: longer
// work signals higher priority.
func PriorityForHours(hours int) model.Priority {
	switch {
	case hours > mediumHoursCeiling:
		return model.PriorityHigh
	case hours > mediumPriorityFloor:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}
