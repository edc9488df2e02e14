package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gatherkit/gatherkit/internal/authz"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	orgID, err := pathID(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.authzSvc.Can(c.Request.Context(), currentUserID(c), orgID, authz.ObjectAuditLog, authz.ActionAuditLogView); err != nil {
		AbortWithError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	entries, err := s.auditSvc.ListForOrganization(c.Request.Context(), orgID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, entries)
}
