package web

import (
	"net/http"

	"gallery/handlers"
	"gallery/models"

	"github.com/gin-gonic/gin"
)

func Settings(c *gin.Context) {
	settings, err := models.GetSiteSettings()
	if err != nil {
		handlers.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func DisallowRobots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nDisallow: /\n")
}
