package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/internal/domain/user"
)

const maxWebhookBytes = 1 << 20

// webhookEvent mirrors the auth provider's user event payload
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID        string `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		ImageURL  string `json:"image_url"`
		Emails    []struct {
			Address string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// handleWebhook applies provider user events. Every delivery must carry
// a valid svix signature; nothing reaches storage before verification.
func (s *Server) handleWebhook(c *gin.Context) {
	if s.webhooks == nil {
		fail(c, fmt.Errorf("%w: webhook verification is not configured", domain.ErrNotAuthorized))
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		fail(c, fmt.Errorf("%w: read payload: %v", domain.ErrInvalidArgument, err))
		return
	}

	if err := s.webhooks.Verify(payload, c.Request.Header); err != nil {
		fail(c, fmt.Errorf("%w: invalid webhook signature", domain.ErrNotAuthorized))
		return
	}

	var ev webhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		fail(c, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
		return
	}

	action := user.SyncAction(ev.Type)
	switch action {
	case user.SyncCreated, user.SyncUpdated, user.SyncDeleted:
	default:
		// unknown event kinds are acknowledged and dropped
		ok(c, http.StatusOK, gin.H{"message": "ignored"})
		return
	}

	email := ""
	if len(ev.Data.Emails) > 0 {
		email = ev.Data.Emails[0].Address
	}

	err = s.users.Sync(c.Request.Context(), user.SyncEvent{
		Action:     action,
		ExternalID: ev.Data.ID,
		Name:       strings.TrimSpace(ev.Data.FirstName + " " + ev.Data.LastName),
		Email:      email,
		ImageURL:   ev.Data.ImageURL,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "synced"})
}
