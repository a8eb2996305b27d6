package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// respondData writes the success envelope around a single resource.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondList writes the success envelope around a collection, adding
// the item count.
func respondList(c *gin.Context, status int, count int, data any) {
	c.JSON(status, gin.H{"success": true, "count": count, "data": data})
}

// respondError writes the failure envelope. message is either a single
// string or a []string of per-field validation messages.
func respondError(c *gin.Context, status int, message any) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// internalError logs the unexpected failure and answers with a generic
// message so store internals never leak to clients.
func internalError(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	respondError(c, http.StatusInternalServerError, "Server Error")
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}
