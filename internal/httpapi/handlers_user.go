package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openhire/jobdesk/internal/domain"
)

const maxResumeUploadBytes = 10 << 20

func (s *Server) currentUser(c *gin.Context) (domain.User, error) {
	return s.users.GetByExternalID(c.Request.Context(), userExternalID(c))
}

func (s *Server) handleGetUser(c *gin.Context) {
	u, err := s.currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": userView(u)})
}

func (s *Server) handleApply(c *gin.Context) {
	var req struct {
		JobID string `json:"jobId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		fail(c, fmt.Errorf("%w: invalid job id", domain.ErrInvalidArgument))
		return
	}

	u, err := s.currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	if _, err := s.users.Apply(c.Request.Context(), u.ID, jobID); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"message": "applied successfully"})
}

func (s *Server) handleUserApplications(c *gin.Context) {
	u, err := s.currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	apps, err := s.users.Applications(c.Request.Context(), u.ID)
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]applicationJSON, 0, len(apps))
	for _, a := range apps {
		v := applicationView(a)
		v.User = nil
		views = append(views, v)
	}
	ok(c, http.StatusOK, gin.H{"applications": views})
}

func (s *Server) handleUpdateResume(c *gin.Context) {
	filename, data, err := formFile(c, "resume", maxResumeUploadBytes)
	if err != nil {
		fail(c, fmt.Errorf("%w: resume file is required", domain.ErrInvalidArgument))
		return
	}

	u, err := s.currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	url, err := s.users.UpdateResume(c.Request.Context(), u.ID, filename, data)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "resume updated", "resume": url})
}
