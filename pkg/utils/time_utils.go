package utils

import "time"

// Brazil time location (BRT, -03:00). Event dates are shown to guests in
// this zone, so day arithmetic happens here too.
var brLoc = func() *time.Location {
	if loc, err := time.LoadLocation("America/Sao_Paulo"); err == nil {
		return loc
	}
	return time.FixedZone("BRT", -3*3600)
}()

func BRLocation() *time.Location { return brLoc }

// NextDay returns the same wall clock time one calendar day later in BRT.
func NextDay(t time.Time) time.Time {
	return t.In(brLoc).AddDate(0, 0, 1)
}

// AddDays moves t forward by n whole days of 24h, independent of zone.
func AddDays(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * 24 * time.Hour)
}
