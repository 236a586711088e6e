package util

import (
	"strings"
	"time"
	_ "time/tzdata"
)

// InZone moves t into the named IANA zone. It reports false, returning t unchanged, when the name is
// blank or not a zone the runtime knows.
func InZone(t time.Time, name string) (time.Time, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return t, false
	}
	zone, err := time.LoadLocation(name)
	if err != nil {
		return t, false
	}
	return t.In(zone), true
}
