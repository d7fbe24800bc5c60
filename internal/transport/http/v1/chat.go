package v1

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xqin77/chatstream/internal/domain"
	"github.com/xqin77/chatstream/internal/transport/http/sse"
)

// StreamChat streams one chat turn over Server-Sent Events.
// POST /chat/stream
func (h *Handler) StreamChat(c echo.Context) error {
	var req domain.LegacyStreamChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	// The request context cancels the workflow run when the client
	// disconnects mid-stream.
	ctx := c.Request().Context()

	err := h.service.StreamChatLegacy(ctx, &req, func(chunk string) error {
		if _, err := io.WriteString(resp, sse.FormatChunk(chunk)); err != nil {
			return err
		}
		resp.Flush()
		return nil
	})
	if err != nil {
		// The stream is already open; report the failure as a well-formed
		// SSE error frame instead of dropping the connection.
		io.WriteString(resp, sse.FormatError(err.Error()))
		resp.Flush()
		return nil
	}

	io.WriteString(resp, sse.FormatComplete())
	resp.Flush()
	return nil
}

// PersistSession bulk-persists a session, bypassing the workflow.
// POST /chat/streams
//
// Always responds 200; failure is reported via the success field. Existing
// clients depend on this, so the status code is not corrected here.
func (h *Handler) PersistSession(c echo.Context) error {
	var req domain.PersistSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	resp := h.service.PersistSession(ctx, &req)

	return c.JSON(http.StatusOK, resp)
}

// GetSession retrieves a session by thread id.
// GET /chat/sessions/:thread_id
func (h *Handler) GetSession(c echo.Context) error {
	threadID := c.Param("thread_id")

	ctx := c.Request().Context()
	session, err := h.service.GetSession(ctx, threadID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if session == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}

	return c.JSON(http.StatusOK, session)
}
