package auth

import (
	"github.com/gin-gonic/gin"
)

const SecretHeader = "X-Album-Password"

// SecretFrom returns the album password sent with the request, or nil if there is none.
// The header wins over the "password" form field, which wins over the query parameter.
func SecretFrom(c *gin.Context) *string {
	if values, ok := c.Request.Header[SecretHeader]; ok && len(values) > 0 {
		return &values[0]
	}
	if secret, ok := c.GetPostForm("password"); ok {
		return &secret
	}
	if secret, ok := c.GetQuery("password"); ok {
		return &secret
	}
	return nil
}
