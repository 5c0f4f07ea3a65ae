package auth

import "github.com/gin-gonic/gin"

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return getString(c, "userID")
}

// GetUserName returns the authenticated user's display name or empty string.
func GetUserName(c *gin.Context) string {
	return getString(c, "userName")
}

// GetUserRole returns the role claim of the authenticated user.
func GetUserRole(c *gin.Context) string {
	return getString(c, "userRole")
}

// IsAdmin reports whether the authenticated user administers facilities.
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == RoleAdmin
}

func getString(c *gin.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
