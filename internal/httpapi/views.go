package httpapi

import (
	"github.com/openhire/jobdesk/internal/domain"
)

type companyJSON struct {
	ID    domain.CompanyID `json:"_id"`
	Name  string           `json:"name"`
	Email string           `json:"email"`
	Image string           `json:"image"`
}

type jobJSON struct {
	ID          domain.JobID `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Category    string       `json:"category"`
	Level       string       `json:"level"`
	Salary      int64        `json:"salary"`
	Visible     bool         `json:"visible"`
	Date        int64        `json:"date"`
	CompanyID   *companyJSON `json:"companyId,omitempty"`
	Applicants  *int         `json:"applicants,omitempty"`
}

type userJSON struct {
	ID     domain.UserID `json:"_id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Resume string        `json:"resume"`
	Image  string        `json:"image"`
}

type applicationJSON struct {
	ID     domain.ApplicationID     `json:"_id"`
	Status domain.ApplicationStatus `json:"status"`
	Date   int64                    `json:"date"`
	User   *userJSON                `json:"userId,omitempty"`
	Job    *jobJSON                 `json:"jobId,omitempty"`
}

func companyView(c domain.Company) companyJSON {
	return companyJSON{ID: c.ID, Name: c.Name, Email: c.Email, Image: c.LogoURL}
}

func companySummaryView(c domain.CompanySummary) companyJSON {
	return companyJSON{ID: c.ID, Name: c.Name, Email: c.Email, Image: c.LogoURL}
}

func jobView(j domain.Job) jobJSON {
	return jobJSON{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Category:    j.Category,
		Level:       j.Level,
		Salary:      j.Salary,
		Visible:     j.Visible,
		Date:        j.CreatedAt.UnixMilli(),
	}
}

func jobWithCompanyView(v domain.JobView) jobJSON {
	j := jobView(v.Job)
	c := companySummaryView(v.Company)
	j.CompanyID = &c
	return j
}

func jobWithApplicantsView(v domain.JobWithApplicants) jobJSON {
	j := jobView(v.Job)
	n := v.Applicants
	j.Applicants = &n
	return j
}

func userView(u domain.User) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, Email: u.Email, Resume: u.ResumeURL, Image: u.ImageURL}
}

func applicationView(v domain.ApplicationView) applicationJSON {
	u := userView(v.User)
	j := jobView(v.Job)
	if v.Company.Name != "" {
		c := companySummaryView(v.Company)
		j.CompanyID = &c
	}
	return applicationJSON{
		ID:     v.Application.ID,
		Status: v.Application.Status,
		Date:   v.Application.CreatedAt.UnixMilli(),
		User:   &u,
		Job:    &j,
	}
}
