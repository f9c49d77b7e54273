package domain

import (
	"regexp"
	"sort"
	"strconv"
)

// PeriodKey is the time bucket a record is assigned to: "YYYY" for years
// before the monthly cutoff, "YYYY-MM" on or after it. Within a granularity
// regime lexicographic order matches chronological order; across regimes
// Before compares (year, raw string).
type PeriodKey string

var periodKeyRegex = regexp.MustCompile(`^[0-9]{4}(-[0-9]{2})?$`)

// PeriodKeyFor buckets a publication year/date. The date string is only
// consulted for years at or past monthFromYear; a short, empty or malformed
// date falls back to yearly granularity. Every returned key is well-formed,
// so no unparseable bucket can enter the period ordering. ok is false when
// the year is missing (zero).
func PeriodKeyFor(year int, date string, monthFromYear int) (PeriodKey, bool) {
	if year <= 0 {
		return "", false
	}
	if year >= monthFromYear && len(date) >= 7 {
		if key := PeriodKey(date[:7]); key.Valid() {
			return key, true
		}
	}
	return PeriodKey(strconv.Itoa(year)), true
}

// Valid reports whether the key is a well-formed "YYYY" or "YYYY-MM" bucket.
func (k PeriodKey) Valid() bool {
	return periodKeyRegex.MatchString(string(k))
}

// Year returns the calendar year of the bucket.
func (k PeriodKey) Year() int {
	if len(k) < 4 {
		return 0
	}
	y, err := strconv.Atoi(string(k[:4]))
	if err != nil {
		return 0
	}
	return y
}

// Monthly reports whether the key carries month granularity.
func (k PeriodKey) Monthly() bool {
	return len(k) == 7
}

// Before reports whether k is chronologically earlier than other.
// A yearly key sorts before any monthly key of the same year.
func (k PeriodKey) Before(other PeriodKey) bool {
	ky, oy := k.Year(), other.Year()
	if ky != oy {
		return ky < oy
	}
	return k < other
}

// SortPeriods orders keys chronologically in place.
func SortPeriods(keys []PeriodKey) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Before(keys[j])
	})
}
