package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Program modes.
const (
	ModeBulk = "bulk"
	ModeCut  = "cut"
)

// NutritionTargets are the daily nutrition goals.
type NutritionTargets struct {
	Calories      float64 `json:"calories"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Protein       float64 `json:"protein"`
	Sodium        float64 `json:"sodium"`
}

// Profile is the per-user program configuration. TargetWeight is in pounds;
// IdealMetric only affects display.
type Profile struct {
	UserID          string           `json:"userId"`
	Mode            string           `json:"mode"`
	TargetWeight    float64          `json:"targetWeight"`
	TargetNutrition NutritionTargets `json:"targetNutrition"`
	IdealMetric     string           `json:"idealMetric"`
	// ProgramStart defaults to the first logged weight when empty.
	ProgramStart string `json:"programStart,omitempty"`
	ProgramEnd   string `json:"programEnd"`
	// WeekStart names the weekday weeks start on; empty uses the service
	// default.
	WeekStart string    `json:"weekStart,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsGaining reports whether the program is a bulk.
func (p *Profile) IsGaining() bool {
	return p.Mode == ModeBulk
}

// ProfileRepository is the port for profile persistence. GetProfile returns
// (nil, nil) when the user has none.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	PutProfile(ctx context.Context, p Profile) error
}

// ParseWeekday parses an English weekday name or its three-letter prefix.
func ParseWeekday(name string) (time.Weekday, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
