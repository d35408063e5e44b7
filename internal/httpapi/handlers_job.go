package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openhire/jobdesk/internal/domain"
)

func (s *Server) handleListJobs(c *gin.Context) {
	jobs, err := s.jobs.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]jobJSON, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, jobWithCompanyView(j))
	}
	ok(c, http.StatusOK, gin.H{"jobs": views})
}

func (s *Server) handleGetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, fmt.Errorf("%w: invalid job id", domain.ErrInvalidArgument))
		return
	}

	view, err := s.jobs.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"job": jobWithCompanyView(view)})
}
