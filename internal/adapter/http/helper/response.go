package helper

import (
	"database/sql"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"log/slog"

	"eventsapp/internal/adapter/database/postgres"
	"eventsapp/internal/adapter/database/sqlite"
	"eventsapp/internal/adapter/http/validation"
	"eventsapp/internal/core/apperror"
)

type ErrorBody struct {
	Status  string                  `json:"status"`
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
	Stack   string                  `json:"stack,omitempty"`
}

func SendSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"status": "success",
		"data":   data,
	})
}

func SendList(c *gin.Context, results int, data any) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": results,
		"data":    data,
	})
}

// SendTokenResponse writes the token both as JSON and as the jwt cookie:
// httpOnly, strict same-site, secure outside development.
func SendTokenResponse(c *gin.Context, statusCode int, token string, cookieDays int, data any) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("jwt", token, cookieDays*24*60*60, "/", "", gin.Mode() == gin.ReleaseMode, true)

	body := gin.H{
		"status": "success",
		"token":  token,
	}

	if data != nil {
		body["data"] = data
	}

	c.JSON(statusCode, body)
}

// AbortWithError is the single conversion point between failures and client
// responses. Operational errors keep their message and status; database-layer
// failures are normalized; everything else becomes a generic 500 whose detail
// is logged, never returned, in release mode.
func AbortWithError(c *gin.Context, err error) {
	if appErr := apperror.From(err); appErr != nil {
		c.AbortWithStatusJSON(appErr.Code, ErrorBody{
			Status:  appErr.Status(),
			Message: appErr.Message,
		})
		return
	}

	var validationErrors validator.ValidationErrors

	if errors.As(err, &validationErrors) {
		fields := validation.FormatValidationErrors(validationErrors)
		message := "Invalid input data"

		if len(fields) > 0 {
			message = fields[0].Message
		}

		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
			Status:  "fail",
			Message: message,
			Errors:  fields,
		})
		return
	}

	if postgres.IsUniqueViolation(err) || sqlite.IsUniqueViolation(err) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
			Status:  "fail",
			Message: "Duplicate field value, please use another value",
		})
		return
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorBody{
			Status:  "fail",
			Message: "No record found with that ID",
		})
		return
	}

	slog.Error("Unexpected error", "error", err, "path", c.Request.URL.Path)

	body := ErrorBody{
		Status:  "error",
		Message: "Something went very wrong!",
	}

	if gin.Mode() != gin.ReleaseMode {
		body.Message = err.Error()
		body.Stack = string(debug.Stack())
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}
