package normalize

import (
	"regexp"
	"strconv"
)

var durationRE = regexp.MustCompile(`^P(?:(\d+)D)?T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)(?:\.\d+)?S)?$`)

// Duration converts an ISO 8601 duration code as used by the YouTube API
// (PT1H2M3S, optionally with a leading day part) into whole seconds. The bool
// is false when raw is empty or unparseable; callers must treat that as
// unknown, not as zero.
func Duration(raw string) (int64, bool) {
	m := durationRE.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	if m[2] == "" && m[3] == "" && m[4] == "" {
		return 0, false
	}

	var total int64
	for i, unit := range []int64{86400, 3600, 60, 1} {
		part := m[i+1]
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, false
		}
		total += n * unit
	}

	return total, true
}
