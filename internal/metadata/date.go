package metadata

import (
	"fmt"
	"regexp"
)

var (
	compactDatePattern = regexp.MustCompile(`^\d{8}$`)
	dashedDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ParseDateString splits YYYYMMDD or YYYY-MM-DD into parts.
func ParseDateString(s string) (DateParts, error) {
	switch {
	case compactDatePattern.MatchString(s):
		return DateParts{Year: s[0:4], Month: s[4:6], Day: s[6:8]}, nil
	case dashedDatePattern.MatchString(s):
		return DateParts{Year: s[0:4], Month: s[5:7], Day: s[8:10]}, nil
	default:
		return DateParts{}, fmt.Errorf("unknown date format %q, want YYYY-MM-DD or YYYYMMDD", s)
	}
}
