package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orgdomain "github.com/gatherkit/gatherkit/internal/organization/domain"
)

type CreateOrganizationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	org, err := s.orgSvc.Create(c.Request.Context(), currentUserID(c), orgdomain.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusCreated, org)
}

func (s *Server) ListMyMemberships(c *gin.Context) {
	memberships, err := s.orgSvc.ListMemberships(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, memberships)
}

func (s *Server) GetOrganization(c *gin.Context) {
	orgID, err := pathID(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := s.orgSvc.Get(c.Request.Context(), currentUserID(c), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, detail)
}

func (s *Server) DeleteOrganization(c *gin.Context) {
	orgID, err := pathID(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.orgSvc.Delete(c.Request.Context(), currentUserID(c), orgID); err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) RemoveMember(c *gin.Context) {
	orgID, err := pathID(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.orgSvc.RemoveMember(c.Request.Context(), currentUserID(c), orgID, userID); err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"removed": true})
}
