package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
)

const (
	msgInvalidInteger = "A valid integer is required."
	msgInvalidIDList  = "Enter a comma separated list of integer ids."
)

// pathID parses the :id route parameter. Anything that is not a positive
// integer cannot name a row and is reported as not found.
func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrNotFound
	}
	return uint(id), nil
}

// owner returns the authenticated caller's id.
func owner(c *gin.Context) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, service.ErrInvalidToken
	}
	return id, nil
}

// queryIDs parses a comma separated list of ids from query param key. A
// missing or empty param yields nil.
func queryIDs(c *gin.Context, key string) ([]uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, service.NewValidationError(key, msgInvalidIDList)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// queryFlag parses an integer flag such as assigned_only=1. Zero and absent
// are false.
func queryFlag(c *gin.Context, key string) (bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false, service.NewValidationError(key, msgInvalidInteger)
	}
	return n != 0, nil
}

// fail attaches err for middleware.ErrorHandler and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
