package rest

import (
	"errors"
	"net/http"

	"github.com/amerihn/conference-event-planner/catalog"
	"github.com/amerihn/conference-event-planner/planner"
	"github.com/gin-gonic/gin"
)

// statusOf maps a planner or catalog error to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, catalog.ErrIndexOutOfRange),
		errors.Is(err, planner.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, planner.ErrInvalidPeopleCount),
		errors.Is(err, planner.ErrUnknownSection):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
