package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id as a string for use in
// cache and rate-limit keys.  JWT numeric claims arrive as float64; older
// tokens may carry the subject as a string.  "anon" is returned for
// unauthenticated requests so anonymous traffic shares one bucket per IP.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return "anon"
}
