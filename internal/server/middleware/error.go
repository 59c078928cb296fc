package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nulzo/model-capability-api/pkg/api"
)

// ErrorHandler is a custom error handling middleware that handles all errors returned by handlers
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// check if there is an error, if so, get the last error
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			// first, we need to check if it's a custom error
			var problem *api.Problem
			if errors.As(err, &problem) {
				// if there is an internal log attached, log it
				if problem.Log != nil {
					fields := []zap.Field{
						zap.Int("status", problem.Status),
						zap.String("title", problem.Title),
						zap.Error(problem.Log),
					}
					if problem.Status >= 500 {
						logger.Error("Request failed", fields...)
					} else {
						logger.Warn("Request rejected", fields...)
					}
				}

				// RFC 9457 dictates the json is at the root
				c.JSON(problem.Status, problem)
				c.Abort()
				return
			}

			// at this point it's an unknown error.
			// we just should to 500 for catch-all server error
			logger.Error("Unhandled error", zap.Error(err))

			// send the JSON response in a standard error shape
			c.JSON(http.StatusInternalServerError, api.NewError(
				http.StatusInternalServerError,
				"Internal Server Error",
				"An unexpected error occurred.",
			))

			// we want to prevent the other middleware from writing to the response
			c.Abort()
		}
	}
}
