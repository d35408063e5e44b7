package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/internal/domain/company"
)

const maxLogoBytes = 5 << 20

func (s *Server) handleCompanyRegister(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")

	logoName, logo, err := formFile(c, "image", maxLogoBytes)
	if err != nil {
		fail(c, fmt.Errorf("%w: company logo is required", domain.ErrInvalidArgument))
		return
	}

	created, err := s.companies.Register(c.Request.Context(), company.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		LogoName: logoName,
		Logo:     logo,
	})
	if err != nil {
		fail(c, err)
		return
	}

	token, err := s.tokens.Issue(created.ID.String(), RoleCompany)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusCreated, gin.H{"company": companyView(created), "token": token})
}

func (s *Server) handleCompanyLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
		return
	}

	found, err := s.companies.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := s.tokens.Issue(found.ID.String(), RoleCompany)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"company": companyView(found), "token": token})
}

func (s *Server) handleCompanyGet(c *gin.Context) {
	found, err := s.companies.Get(c.Request.Context(), companyID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"company": companyView(found)})
}

func (s *Server) handlePostJob(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Location    string `json:"location"`
		Category    string `json:"category"`
		Level       string `json:"level"`
		Salary      int64  `json:"salary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
		return
	}

	created, err := s.companies.PostJob(c.Request.Context(), companyID(c), company.JobDraft{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
		Level:       req.Level,
		Salary:      req.Salary,
	})
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusCreated, gin.H{"job": jobView(created)})
}

func (s *Server) handleListCompanyJobs(c *gin.Context) {
	jobs, err := s.companies.ListJobs(c.Request.Context(), companyID(c))
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]jobJSON, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, jobWithApplicantsView(j))
	}
	ok(c, http.StatusOK, gin.H{"jobs": views})
}

func (s *Server) handleApplicants(c *gin.Context) {
	apps, err := s.companies.Applicants(c.Request.Context(), companyID(c))
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]applicationJSON, 0, len(apps))
	for _, a := range apps {
		views = append(views, applicationView(a))
	}
	ok(c, http.StatusOK, gin.H{"applications": views})
}

func (s *Server) handleChangeStatus(c *gin.Context) {
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
		return
	}

	appID, err := uuid.Parse(req.ID)
	if err != nil {
		fail(c, fmt.Errorf("%w: invalid application id", domain.ErrInvalidArgument))
		return
	}

	if err := s.companies.ChangeStatus(c.Request.Context(), companyID(c), appID, domain.ApplicationStatus(req.Status)); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "status changed"})
}

func (s *Server) handleChangeVisibility(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
		return
	}

	jobID, err := uuid.Parse(req.ID)
	if err != nil {
		fail(c, fmt.Errorf("%w: invalid job id", domain.ErrInvalidArgument))
		return
	}

	updated, err := s.companies.ChangeVisibility(c.Request.Context(), companyID(c), jobID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"job": jobView(updated)})
}

func (s *Server) handleAnalyzeResumes(c *gin.Context) {
	var req struct {
		JobID string `json:"jobId"`
		TopN  int    `json:"topN"`
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

	summary, err := s.screening.Analyze(c.Request.Context(), companyID(c), jobID, req.TopN)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message":  fmt.Sprintf("shortlisted %d candidates", summary.AcceptedCount),
		"accepted": summary.AcceptedCount,
	})
}

func formFile(c *gin.Context, field string, limit int64) (string, []byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	if header.Size > limit {
		return "", nil, fmt.Errorf("file %q exceeds %d bytes", header.Filename, limit)
	}

	f, err := header.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}
