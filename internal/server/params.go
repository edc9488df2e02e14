package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// pathID parses a snowflake id path parameter. Malformed ids read as
// a missing resource rather than a bad request, matching the lookup
// they would fail anyway.
func pathID(c *gin.Context, name string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(c.Param(name))
	if err != nil || id == 0 {
		return 0, ErrNotFound
	}
	return id, nil
}
