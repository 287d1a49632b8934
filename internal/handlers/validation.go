package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/roomrental/pkg/errors"
	"github.com/charlesng35/roomrental/pkg/response"
	appValidator "github.com/charlesng35/roomrental/pkg/validator"
)

// bindAndValidate binds the JSON payload into dest and runs struct validation rules.
// An empty body binds as the zero value. When validation fails, an error response is
// automatically written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(formatValidationError(err)))
		return false
	}

	return true
}

func formatValidationError(err error) string {
	if err == nil {
		return "invalid request payload"
	}

	if ve, ok := err.(appValidator.ValidationErrors); ok {
		if len(ve) == 0 {
			return "invalid request payload"
		}

		messages := make([]string, 0, len(ve))
		for _, failure := range ve {
			field := failure.Field
			switch failure.Tag {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", field))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
			case "date":
				messages = append(messages, fmt.Sprintf("%s must be a valid date", field))
			case "oneof":
				messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(failure.Param, " ", ", ")))
			case "min", "gte":
				messages = append(messages, fmt.Sprintf("%s must be at least %s", field, failure.Param))
			case "max", "lte":
				messages = append(messages, fmt.Sprintf("%s must be at most %s", field, failure.Param))
			default:
				if failure.Param != "" {
					messages = append(messages, fmt.Sprintf("%s failed validation: %s=%s", field, failure.Tag, failure.Param))
				} else {
					messages = append(messages, fmt.Sprintf("%s failed validation: %s", field, failure.Tag))
				}
			}
		}
		return strings.Join(messages, "; ")
	}

	return "invalid request payload"
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// parseBoolQuery returns nil when the parameter is absent, so "not filtered" and "false"
// stay distinct.
func parseBoolQuery(c *gin.Context, key string) *bool {
	value, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	parsed := strings.EqualFold(strings.TrimSpace(value), "true")
	return &parsed
}

func parseFloatQuery(c *gin.Context, key string) *float64 {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseIntPtrQuery(c *gin.Context, key string) *int {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &parsed
}

// parseDate converts a validated date string; empty input yields the zero time.
func parseDate(value string) time.Time {
	parsed, _ := appValidator.ParseDate(value)
	return parsed
}

func parseDatePtr(value *string) *time.Time {
	if value == nil {
		return nil
	}
	parsed, ok := appValidator.ParseDate(*value)
	if !ok {
		return nil
	}
	return &parsed
}

// asAppError keeps typed application errors and wraps anything else with a public message.
func asAppError(err error, fallback string) error {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, fallback)
}
