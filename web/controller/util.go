package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scorebox/scorebox/logger"
	"github.com/scorebox/scorebox/util/common"
	"github.com/scorebox/scorebox/web/entity"
	"github.com/scorebox/scorebox/web/middleware"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// jsonError writes the structured failure body for err at its mapped
// status. Store faults are logged; client faults are the caller's.
func jsonError(c *gin.Context, err error) {
	status := common.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("request %s failed: %v", middleware.GetRequestId(c), err)
	}
	c.JSON(status, entity.NewError(err))
}

func jsonObj(c *gin.Context, status int, obj any) {
	c.JSON(status, obj)
}

// jsonPage writes a list response with its pagination window.
func jsonPage(c *gin.Context, count int64, limit, offset int, results any) {
	c.JSON(http.StatusOK, entity.Page{
		Count:   count,
		Limit:   limit,
		Offset:  offset,
		Results: results,
	})
}

// pathId parses a numeric path parameter.
func pathId(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, common.NewValidationf("%s must be a positive integer", name)
	}
	return id, nil
}

// pageParams reads limit/offset query parameters with defaults and cap.
func pageParams(c *gin.Context) (limit, offset int) {
	limit = defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxPageLimit)
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
