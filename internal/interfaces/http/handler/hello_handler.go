package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Hello is the liveness endpoint the heartbeat job probes.
func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello, CRM is up!"})
}
