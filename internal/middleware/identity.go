package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user's ID for
// rate-limit key building. JWTAuth stores the raw "sub" claim, which the
// JSON decoder surfaces as float64. Unauthenticated requests get "anon".
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
	}
	return "anon"
}
