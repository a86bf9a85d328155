package model

import "strings"

// Tier buckets raw priority text into ordered severity bands.
// Trackers report priority as free text ("P0", "P1 - Critical",
// "Not Prioritized"); rendering only cares about the band.
type Tier int

const (
	TierBlocker Tier = iota
	TierCritical
	TierMajor
	TierMinor
	TierUnprioritized
	TierUnknown
)

// String returns a short name for the tier.
func (t Tier) String() string {
	switch t {
	case TierBlocker:
		return "blocker"
	case TierCritical:
		return "critical"
	case TierMajor:
		return "major"
	case TierMinor:
		return "minor"
	case TierUnprioritized:
		return "unprioritized"
	}
	return "unknown"
}

// tierRules maps case-sensitive priority prefixes to tiers.
// Evaluated in order; the first matching prefix wins.
var tierRules = []struct {
	prefix string
	tier   Tier
}{
	{"P0", TierBlocker},
	{"P1", TierCritical},
	{"P2", TierMajor},
	{"P3", TierMinor},
	{"Not", TierUnprioritized},
}

// ClassifyPriority returns the tier for a raw priority string.
// Unmatched text (including the empty string) classifies as TierUnknown.
func ClassifyPriority(priority string) Tier {
	for _, r := range tierRules {
		if strings.HasPrefix(priority, r.prefix) {
			return r.tier
		}
	}
	return TierUnknown
}
