// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"sync"
	"time"

	"trainingku_backend/internals/configs"
)

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location timezone tampilan (APP_TIMEZONE), fallback Asia/Jakarta lalu UTC.
// Penyimpanan tetap UTC.
func Location() *time.Location {
	locOnce.Do(func() {
		name := configs.GetEnv("APP_TIMEZONE", "Asia/Jakarta")
		l, err := time.LoadLocation(name)
		if err != nil {
			l = time.UTC
		}
		loc = l
	})
	return loc
}

// ToLocal. Kalau t.IsZero() → dikembalikan apa adanya.
func ToLocal(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(Location())
}

// NowUTC dipakai untuk semua timestamp yang disimpan.
func NowUTC() time.Time { return time.Now().UTC() }
