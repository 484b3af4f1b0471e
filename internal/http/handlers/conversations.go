package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type startConversationRequest struct {
	UserID domain.ID `json:"user_id" binding:"required"`
}

// POST /api/conversations
func (h Handlers) StartConversation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req startConversationRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	id, err := h.conversations(c).GetOrCreateConversation(c.Request.Context(), userID, req.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation_id": id})
}

// GET /api/conversations
func (h Handlers) ListConversations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	out, err := h.conversations(c).ListConversations(c.Request.Context(), userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": out})
}

// GET /api/conversations/:id/messages?after=&limit=
func (h Handlers) ListMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := idParam(c, "id")
	if !ok {
		return
	}
	afterID, ok := queryID(c, "after")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	out, err := h.conversations(c).ListMessages(c.Request.Context(), convID, userID, domain.Pagination{AfterID: afterID, Limit: limit})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

// POST /api/conversations/:id/messages
func (h Handlers) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req sendMessageRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	msg, err := h.conversations(c).SendMessage(c.Request.Context(), convID, userID, req.Body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
)

func (h Handlers) upgrader() websocket.Upgrader {
	allowed := map[string]bool{}
	for _, o := range h.Env.AllowedOrigins {
		allowed[o] = true
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(allowed) == 0 || allowed[origin]
		},
	}
}

// GET /api/conversations/:id/stream (websocket)
func (h Handlers) StreamConversation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if h.Hub == nil {
		respondError(c, http.StatusServiceUnavailable, "realtime_disabled", "realtime chat is not configured", nil)
		return
	}
	svc := h.conversations(c)
	if _, err := svc.Participant(c.Request.Context(), convID, userID); err != nil {
		RespondDomainError(c, err)
		return
	}

	up := h.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		utils.LogEventf(svc.RequestID, "chat", "ws_upgrade_failed", "conversation_id=%d err=%v", convID, err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	messages, err := h.Hub.Subscribe(ctx, convID)
	if err != nil {
		utils.LogEventf(svc.RequestID, "chat", "subscribe_failed", "conversation_id=%d err=%v", convID, err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscribe failed"), time.Now().Add(wsWriteWait))
		return
	}
	utils.LogEventf(svc.RequestID, "chat", "ws_open", "conversation_id=%d user_id=%d", convID, userID)

	// Reader: only pongs and close frames are expected from the client.
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
