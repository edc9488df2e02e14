package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	eventdomain "github.com/gatherkit/gatherkit/internal/event/domain"
)

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
}

func (s *Server) CreateEvent(c *gin.Context) {
	orgID, err := pathID(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	event, err := s.eventSvc.Create(c.Request.Context(), currentUserID(c), orgID, eventdomain.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusCreated, event)
}

func (s *Server) UpdateEvent(c *gin.Context) {
	eventID, err := pathID(c, "eventId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var patch eventdomain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	event, err := s.eventSvc.Update(c.Request.Context(), currentUserID(c), eventID, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, event)
}

func (s *Server) DeleteEvent(c *gin.Context) {
	eventID, err := pathID(c, "eventId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.eventSvc.Delete(c.Request.Context(), currentUserID(c), eventID); err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) GetEvent(c *gin.Context) {
	eventID, err := pathID(c, "eventId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	event, err := s.eventSvc.Get(c.Request.Context(), currentUserID(c), eventID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, event)
}

func (s *Server) ListPublishedEvents(c *gin.Context) {
	events, err := s.eventSvc.ListPublished(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, events)
}

func (s *Server) ListOrganizationEvents(c *gin.Context) {
	orgID, err := pathID(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	events, err := s.eventSvc.ListForOrganization(c.Request.Context(), currentUserID(c), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, events)
}
