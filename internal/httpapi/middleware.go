package httpapi

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openhire/jobdesk/internal/domain"
)

const (
	ctxCompanyID      = "company_id"
	ctxUserExternalID = "user_external_id"
)

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		// legacy clients send the raw token in a "token" header
		if raw := c.GetHeader("token"); raw != "" {
			return raw, nil
		}
		return "", fmt.Errorf("%w: missing authorization header", domain.ErrNotAuthorized)
	}
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", fmt.Errorf("%w: malformed authorization header", domain.ErrNotAuthorized)
	}
	return raw, nil
}

// RequireCompany authenticates recruiter requests and stores the
// company ID in the request context.
func RequireCompany(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			fail(c, err)
			c.Abort()
			return
		}

		claims, err := issuer.Parse(raw)
		if err != nil || claims.Role != RoleCompany {
			fail(c, fmt.Errorf("%w: not authorized, login again", domain.ErrNotAuthorized))
			c.Abort()
			return
		}

		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			fail(c, fmt.Errorf("%w: invalid token subject", domain.ErrNotAuthorized))
			c.Abort()
			return
		}

		c.Set(ctxCompanyID, domain.CompanyID(id))
		c.Next()
	}
}

// RequireUser authenticates candidate requests and stores the external
// user ID in the request context.
func RequireUser(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			fail(c, err)
			c.Abort()
			return
		}

		claims, err := issuer.Parse(raw)
		if err != nil || claims.Role != RoleUser {
			fail(c, fmt.Errorf("%w: not authorized, login again", domain.ErrNotAuthorized))
			c.Abort()
			return
		}

		c.Set(ctxUserExternalID, claims.Subject)
		c.Next()
	}
}

func companyID(c *gin.Context) domain.CompanyID {
	return c.MustGet(ctxCompanyID).(domain.CompanyID)
}

func userExternalID(c *gin.Context) string {
	return c.MustGet(ctxUserExternalID).(string)
}
