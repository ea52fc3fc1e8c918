package helper_util

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GetTimeRangeParams reads from/to query parameters (RFC 3339), defaulting
// to the last 24 hours.
func GetTimeRangeParams(c *gin.Context) (from time.Time, to time.Time, err error) {
	to = time.Now().UTC()
	from = to.Add(-24 * time.Hour)

	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
