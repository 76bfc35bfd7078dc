package response

import "github.com/gin-gonic/gin"

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondPaginated wraps a page of items with its pagination block
func RespondPaginated(c *gin.Context, code int, message string, items interface{}, page, limit int, total int64) {
	RespondJSON(c, "success", code, message, PaginatedData{
		Items:      items,
		Pagination: NewPagination(page, limit, total),
	}, nil)
}
