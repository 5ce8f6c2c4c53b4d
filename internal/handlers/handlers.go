package handlers

import (
	"github.com/gin-gonic/gin"
)

// respondData wraps a payload in the success envelope.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondList wraps a list payload in the success envelope with a count.
func respondList(c *gin.Context, status int, count int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"count":   count,
		"data":    data,
	})
}
