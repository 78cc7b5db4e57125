package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/openhire/applicant-tracking-service/internal/pagination"
)

// pageRequest lifts the standard paging params off the query string.
// Values are passed through raw; the pagination engine owns the clamping.
func pageRequest(c *gin.Context) pagination.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return pagination.PageRequest{
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sort_by"),
		SortOrder: sortOrder(c),
		Search:    c.Query("search"),
	}
}

func cursorRequest(c *gin.Context) pagination.CursorRequest {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return pagination.CursorRequest{
		Cursor:    c.Query("cursor"),
		Limit:     limit,
		SortBy:    c.Query("sort_by"),
		SortOrder: sortOrder(c),
	}
}

func sortOrder(c *gin.Context) pagination.SortOrder {
	if strings.EqualFold(c.Query("sort_order"), "desc") {
		return pagination.DESC
	}
	return pagination.ASC
}
