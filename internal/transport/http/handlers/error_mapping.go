package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCase pairs a service sentinel with the status and message the API
// reports when a handler sees it.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError writes the response for the first case matching err,
// or the fallback when the error is unexpected. Internal error details never
// reach the client; the trace id in the payload links back to the logs.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range cases {
		if cs.Err != nil && errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}
