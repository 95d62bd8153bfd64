package apply

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stapply-ai/agent/internal/agent"
	"github.com/stapply-ai/agent/internal/server/handlers/api"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// SessionService is the part of the session service the handler needs.
type SessionService interface {
	Submit(ctx context.Context, params *agent.SubmitParams) (*agent.Session, error)
	GetSession(ctx context.Context, id string) (*agent.Session, error)
	ListSessions(ctx context.Context, userID string, limit int) ([]*agent.Session, error)
}

type ApplyHandler struct {
	sessions SessionService
}

func New(sessions SessionService) *ApplyHandler {
	return &ApplyHandler{
		sessions: sessions,
	}
}

// Apply queues a job application session
//
//	@Summary		Start an application session
//	@Description	Provisions a browser, queues the application run and returns the live view URL
//	@Tags			apply
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ApplyRequest	true	"Application request"
//	@Success		202		{object}	ApplyResponse
//	@Failure		400		{object}	api.Error
//	@Failure		500		{object}	api.Error
//	@Failure		503		{object}	api.Error
//	@Router			/apply [post]
func (h *ApplyHandler) Apply(ctx *gin.Context) {
	var req ApplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, fmt.Errorf("failed to bind json: %w", err))
		return
	}

	session, err := h.sessions.Submit(ctx.Request.Context(), &agent.SubmitParams{
		UserID:       req.UserID,
		URL:          req.URL,
		Profile:      req.Profile,
		ResumeURL:    req.ResumeURL,
		Instructions: req.Instructions,
		Secrets:      req.Secrets,
		WebhookURL:   req.WebhookURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, agent.ErrUserIDRequired),
			errors.Is(err, agent.ErrURLRequired),
			errors.Is(err, agent.ErrResumeURLRequired),
			errors.Is(err, agent.ErrWebhookURLInvalid):
			api.AbortWithError(ctx, http.StatusBadRequest, err)
		case errors.Is(err, agent.ErrQueueFull),
			errors.Is(err, agent.ErrServiceStopped):
			api.AbortWithError(ctx, http.StatusServiceUnavailable, err)
		default:
			api.AbortWithError(ctx, http.StatusInternalServerError, fmt.Errorf("failed to start agent: %w", err))
		}
		return
	}

	ctx.PureJSON(http.StatusAccepted, &ApplyResponse{
		SessionID: session.ID,
		LiveURL:   session.LiveURL,
	})
}

// GetSession returns one session by id
//
//	@Summary		Get a session
//	@Description	Returns the stored state of an application session
//	@Tags			apply
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	agent.Session
//	@Failure		404	{object}	api.Error
//	@Failure		500	{object}	api.Error
//	@Router			/sessions/{id} [get]
func (h *ApplyHandler) GetSession(ctx *gin.Context) {
	session, err := h.sessions.GetSession(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, agent.ErrSessionNotFound) {
			api.AbortWithError(ctx, http.StatusNotFound, err)
		} else {
			api.AbortWithError(ctx, http.StatusInternalServerError, err)
		}
		return
	}
	ctx.PureJSON(http.StatusOK, session)
}

// ListSessions returns a user's recent sessions
//
//	@Summary		List sessions
//	@Description	Returns the user's most recent application sessions, newest first
//	@Tags			apply
//	@Produce		json
//	@Param			user_id	query		string	true	"User ID"
//	@Param			limit	query		int		false	"Maximum number of sessions to return"
//	@Success		200		{object}	ListSessionsResponse
//	@Failure		400		{object}	api.Error
//	@Failure		500		{object}	api.Error
//	@Router			/sessions [get]
func (h *ApplyHandler) ListSessions(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	if userID == "" {
		api.AbortWithError(ctx, http.StatusBadRequest, agent.ErrUserIDRequired)
		return
	}

	limit := defaultListLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			api.AbortWithError(ctx, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = min(parsed, maxListLimit)
	}

	sessions, err := h.sessions.ListSessions(ctx.Request.Context(), userID, limit)
	if err != nil {
		api.AbortWithError(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.PureJSON(http.StatusOK, &ListSessionsResponse{
		Sessions: sessions,
		Count:    len(sessions),
	})
}
