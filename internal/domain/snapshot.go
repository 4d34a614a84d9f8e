package domain

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Snapshot is everything stored for one user, read at one point in time.
// Keys of Weights, Days and Reviews are raw storage keys; see
// NormalizeDayKey.
type Snapshot struct {
	Profile *Profile            `json:"profile,omitempty"`
	Weights map[string]string   `json:"weights"`
	Days    map[string]DailyLog `json:"days"`
	Reviews map[string]string   `json:"reviews"`
}

// SnapshotReader reads a full snapshot of a user's records.
type SnapshotReader interface {
	Snapshot(ctx context.Context, userID string) (*Snapshot, error)
}

// ChangeFeed delivers a signal every time any of a user's collections is
// replaced. Receivers must re-read the whole snapshot.
type ChangeFeed interface {
	Subscribe(userID string) (<-chan struct{}, func())
}

var dayKeyLayouts = []string{"2006-01-02", "1/2/2006", "2006-01-02T15:04:05Z07:00"}

// NormalizeDayKey turns an ISO date, a US "1/2/2006" date or an
// epoch-millisecond string into a "2006-01-02" key. Epoch keys are read in
// loc.
func NormalizeDayKey(key string, loc *time.Location) (string, error) {
	key = strings.TrimSpace(key)
	for _, layout := range dayKeyLayouts {
		if t, err := time.ParseInLocation(layout, key, loc); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	if ms, err := strconv.ParseInt(key, 10, 64); err == nil {
		return time.UnixMilli(ms).In(loc).Format("2006-01-02"), nil
	}
	return "", fmt.Errorf("unrecognised day key %q", key)
}

// ParseWeight reads a stored weight. Empty, non-numeric and non-positive
// values are reported as absent.
func ParseWeight(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// FormatWeight renders a pound value for storage.
func FormatWeight(lbs float64) string {
	return strconv.FormatFloat(lbs, 'f', -1, 64)
}
