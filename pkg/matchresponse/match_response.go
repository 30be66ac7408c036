package matchresponse

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// SuccessBody is the envelope for successful responses.
type SuccessBody struct {
	Status  string      `json:"status"` // "success"
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody is the envelope for error responses.
type ErrorBody struct {
	Status  string      `json:"status"` // "error" or "fail"
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Errors  interface{} `json:"errors,omitempty"` // field errors, or the unchanged state on a conflict
}

// PaginatedBody wraps a page of items.
type PaginatedBody struct {
	Status     string      `json:"status"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	TotalItems   int64 `json:"total_items"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
	NextPage     *int  `json:"next_page,omitempty"`
	PreviousPage *int  `json:"previous_page,omitempty"`
}

// ErrorResponse sends a standardized error JSON response.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{
		Status:  statusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// ConflictResponse sends a 409 carrying detail, typically the state the
// rejected command left untouched.
func ConflictResponse(c *gin.Context, message string, detail interface{}) {
	c.AbortWithStatusJSON(http.StatusConflict, ErrorBody{
		Status:  "error",
		Message: message,
		Code:    http.StatusConflict,
		Errors:  detail,
	})
}

func statusText(code int) string {
	if code >= http.StatusInternalServerError {
		return "fail"
	}
	return "error"
}

// formatValidationErrors converts validator.ValidationErrors into a map.
func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	formatted := make(map[string]string)
	for _, err := range errs {
		fieldKey := strings.ToLower(err.Field())
		var msg string
		switch err.Tag() {
		case "required":
			msg = fmt.Sprintf("The %s field is required.", err.Field())
		case "min":
			msg = fmt.Sprintf("The %s field must be at least %s.", err.Field(), err.Param())
		case "max":
			msg = fmt.Sprintf("The %s field must not exceed %s.", err.Field(), err.Param())
		case "oneof":
			msg = fmt.Sprintf("The %s field must be one of the following: %s.", err.Field(), strings.ReplaceAll(err.Param(), " ", ", "))
		case "email":
			msg = fmt.Sprintf("The %s field must be a valid email address.", err.Field())
		default:
			msg = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", err.Field(), err.Tag())
		}
		formatted[fieldKey] = msg
	}
	return formatted
}

// ValidationErrorResponse reports binding failures from ShouldBindJSON and
// friends as a 400.
func ValidationErrorResponse(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
			Status:  "error",
			Message: "Validation failed. Please check your input.",
			Code:    http.StatusBadRequest,
			Errors:  formatValidationErrors(ve),
		})
		return
	}
	ErrorResponse(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
}

// SuccessResponse sends a standardized success JSON response. A gin.H with a
// string "message" key has the message lifted to the envelope.
func SuccessResponse(c *gin.Context, statusCode int, responseData interface{}) {
	payload := SuccessBody{Status: "success"}

	if gh, ok := responseData.(gin.H); ok {
		if msg, isStr := gh["message"].(string); isStr {
			payload.Message = msg
			rest := make(gin.H)
			for k, v := range gh {
				if k != "message" {
					rest[k] = v
				}
			}
			if len(rest) > 0 {
				payload.Data = rest
			}
		} else {
			payload.Data = responseData
		}
	} else if responseData != nil {
		payload.Data = responseData
	}

	c.JSON(statusCode, payload)
}

// PaginatedResponse sends a page of items with pagination details.
func PaginatedResponse(c *gin.Context, statusCode int, itemsData interface{}, currentPage int, pageSize int, totalItems int64) {
	if pageSize <= 0 {
		pageSize = 10
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))
	hasNextPage := currentPage < totalPages
	hasPrevPage := currentPage > 1 && currentPage <= totalPages

	var nextPage, prevPage *int
	if hasNextPage {
		v := currentPage + 1
		nextPage = &v
	}
	if hasPrevPage {
		v := currentPage - 1
		prevPage = &v
	}

	c.JSON(statusCode, PaginatedBody{
		Status: "success",
		Data:   itemsData,
		Pagination: Pagination{
			TotalItems:   totalItems,
			TotalPages:   totalPages,
			CurrentPage:  currentPage,
			PageSize:     pageSize,
			HasNextPage:  hasNextPage,
			HasPrevPage:  hasPrevPage,
			NextPage:     nextPage,
			PreviousPage: prevPage,
		},
	})
}
