package webserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wraptron/incubation-backend/src/api/apperr"
)

// fail writes the uniform error body: a stable category plus a
// human-readable detail. Unclassified errors are logged and reported as a
// dependency failure without leaking internals.
func fail(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Category == apperr.Dependency {
			log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": string(apperr.Dependency), "detail": "internal error"})
			return
		}
		c.JSON(ae.Category.HTTPStatus(), gin.H{"error": string(ae.Category), "detail": ae.Detail})
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": string(apperr.Dependency), "detail": "internal error"})
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": string(apperr.InvalidInput), "detail": detail})
}
