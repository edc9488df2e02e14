package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CreateInviteRequest struct {
	Email string `json:"email"`
}

type RespondToInviteRequest struct {
	Accept bool `json:"accept"`
}

func (s *Server) CreateInvite(c *gin.Context) {
	orgID, err := pathID(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invite, err := s.invSvc.Create(c.Request.Context(), currentUserID(c), orgID, req.Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusCreated, invite)
}

func (s *Server) ListOrganizationInvites(c *gin.Context) {
	orgID, err := pathID(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invites, err := s.invSvc.ListForOrganization(c.Request.Context(), currentUserID(c), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, invites)
}

func (s *Server) ListMyInvites(c *gin.Context) {
	invites, err := s.invSvc.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, invites)
}

func (s *Server) RespondToInvite(c *gin.Context) {
	inviteID, err := pathID(c, "inviteId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req RespondToInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.invSvc.Respond(c.Request.Context(), currentUserID(c), inviteID, req.Accept); err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"accepted": req.Accept})
}

func (s *Server) CancelInvite(c *gin.Context) {
	inviteID, err := pathID(c, "inviteId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.invSvc.Cancel(c.Request.Context(), currentUserID(c), inviteID); err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"cancelled": true})
}
