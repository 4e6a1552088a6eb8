package constants

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Standard Response Field Keys
const (
	ResponseFieldSuccess   = "success"
	ResponseFieldMessage   = "message"
	ResponseFieldData      = "data"
	ResponseFieldErrors    = "errors"
	ResponseFieldTimestamp = "timestamp"

	// Pagination fields
	ResponseFieldTotal     = "total"
	ResponseFieldPage      = "page"
	ResponseFieldPageTotal = "page_total"
)

// Pagination Query Parameters
const (
	QueryParamPage   = "page"
	QueryParamLimit  = "limit"
	QueryParamSearch = "search"

	DefaultPage   = "1"
	DefaultLimit  = "10"
	DefaultSearch = ""

	MinPage  = 1
	MinLimit = 1
	MaxLimit = 100
)

// PaginationParams holds parsed pagination values
type PaginationParams struct {
	Page   int // Page number from user request (default: 1)
	Limit  int // Limit per page from user request (default: 10)
	Offset int // Calculated offset (page - 1) * limit
}

// ParsePaginationParams parses page and limit query parameters with bounds
func ParsePaginationParams(c *gin.Context) PaginationParams {
	pageStr := c.DefaultQuery(QueryParamPage, DefaultPage)
	limitStr := c.DefaultQuery(QueryParamLimit, DefaultLimit)

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < MinPage {
		page = MinPage
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// BuildSuccessResponse builds the standard success envelope
func BuildSuccessResponse(message string, data any) map[string]any {
	response := map[string]any{
		ResponseFieldSuccess:   true,
		ResponseFieldMessage:   message,
		ResponseFieldTimestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if data != nil {
		response[ResponseFieldData] = data
	}

	return response
}

// BuildErrorResponse builds the standard error envelope
func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldSuccess:   false,
		ResponseFieldMessage:   message,
		ResponseFieldTimestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if details != nil {
		response[ResponseFieldErrors] = details
	}

	return response
}

// BuildListResponse wraps a paginated collection in the success envelope
func BuildListResponse(message string, total int64, page, pageTotal int, data any) map[string]any {
	return BuildSuccessResponse(message, map[string]any{
		ResponseFieldTotal:     total,
		ResponseFieldPage:      page,
		ResponseFieldPageTotal: pageTotal,
		ResponseFieldData:      data,
	})
}
