package profile

import (
	"strconv"
	"time"
)

// YearsOfExperience derives a headline experience figure from a work history:
// the maximum of per-entry end_year - start_year, clamped to zero. An entry
// marked currently active with no end year runs to the current calendar year.
// Entries with a missing or nonsensical start year are skipped, never
// failed on.
func YearsOfExperience(entries []WorkEntry, now time.Time) int {
	best := 0
	for _, e := range entries {
		if span, ok := entrySpan(e.StartYear, e.EndYear, e.Current, now); ok && span > best {
			best = span
		}
	}
	return best
}

// YearsOfExperienceRaw computes the same figure straight from a normalized
// work-history value, tolerating entries that would not decode into
// WorkEntry at all (wrong types, string years). Malformed entries are
// skipped.
func YearsOfExperienceRaw(entries []any, now time.Time) int {
	best := 0
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		start, _ := intField(entry, "start_year")
		end, _ := intField(entry, "end_year")
		current, _ := entry["currently_active"].(bool)
		if span, ok := entrySpan(start, end, current, now); ok && span > best {
			best = span
		}
	}
	return best
}

func entrySpan(start, end int, current bool, now time.Time) (int, bool) {
	if start <= 0 {
		return 0, false
	}
	if end <= 0 {
		if !current {
			return 0, false
		}
		end = now.Year()
	}
	span := end - start
	if span < 0 {
		span = 0
	}
	return span, true
}

// intField reads a numeric field that may arrive as a JSON number or as a
// digit string.
func intField(entry map[string]any, key string) (int, bool) {
	switch v := entry[key].(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
