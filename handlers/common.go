// Package handlers is the REST surface. Handlers bind and validate input,
// call into models, and translate errors: unknown id is 404, a broken
// business rule is 400, anything else is 500.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case utils.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		data := map[string]interface{}{}
		if userId, ok := utils.GetUserIdFromContext(c.Request.Context()); ok {
			data["userId"] = userId
		}
		if username, ok := utils.GetUsernameFromContext(c.Request.Context()); ok {
			data["username"] = username
		}
		config.LogError(config.GetLogger(), "handlers", c.HandlerName(), c.FullPath(), data, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondBindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// dateRange reads ?startDate&endDate (YYYY-MM-DD), defaulting to the last
// 30 days. endDate is inclusive through end of day.
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	const layout = "2006-01-02"

	endDate := time.Now()
	if v := c.Query("endDate"); v != "" {
		parsed, err := time.Parse(layout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate, expected YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		endDate = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}
	startDate := endDate.AddDate(0, 0, -30)
	if v := c.Query("startDate"); v != "" {
		parsed, err := time.Parse(layout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate, expected YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		startDate = parsed
	}
	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must not be before startDate"})
		return time.Time{}, time.Time{}, false
	}
	return startDate, endDate, true
}
