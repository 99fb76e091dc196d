package httpadapter

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PabloGalante/callorder-agent/internal/app/call"
	"github.com/PabloGalante/callorder-agent/internal/app/orders"
	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
	"github.com/PabloGalante/callorder-agent/internal/observability"
)

// Clearer is implemented by stores the admin API may wipe.
type Clearer interface {
	Clear() int
}

type Deps struct {
	Calls    *call.Service
	Orders   *orders.Service
	Sessions domain.SessionStore
	Menu     menu.Source
	Records  Clearer // optional
}

type Server struct {
	calls    *call.Service
	orders   *orders.Service
	sessions domain.SessionStore
	menu     menu.Source
	records  Clearer
}

func NewServer(d Deps) http.Handler {
	s := &Server{
		calls:    d.Calls,
		orders:   d.Orders,
		sessions: d.Sessions,
		menu:     d.Menu,
		records:  d.Records,
	}
	if s.orders == nil {
		s.orders = orders.NewService(nil)
	}

	r := gin.New()
	r.Use(gin.Recovery(), withRequestID(), withLogging(), withCORS())

	r.GET("/", s.handleInfo)
	r.GET("/healthz", s.handleHealth)

	r.POST("/calls/:id/turns", s.handleTurn)
	r.GET("/calls/:id", s.handleGetCall)
	r.DELETE("/calls/:id", s.handleHangup)

	api := r.Group("/api")
	api.GET("/menu", s.handleMenu)
	api.GET("/calls", s.handleCallStats)
	api.GET("/orders", s.handleOrders)
	api.GET("/orders/summary", s.handleOrderSummary)
	api.POST("/clear", s.handleClear)

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type turnRequest struct {
	Text string `json:"text"`
}

type turnResponse struct {
	CallID     string                 `json:"call_id"`
	Reply      string                 `json:"reply"`
	Stage      string                 `json:"stage"`
	Reprompt   bool                   `json:"reprompt,omitempty"`
	Fallback   bool                   `json:"fallback,omitempty"`
	Terminated bool                   `json:"terminated"`
	OrderID    string                 `json:"order_id,omitempty"`
	Order      *domain.ExtractedOrder `json:"order,omitempty"`
}

type turnView struct {
	Role       string    `json:"role"`
	Text       string    `json:"text"`
	OccurredAt time.Time `json:"occurred_at"`
}

type callResponse struct {
	CallID         string     `json:"call_id"`
	Stage          string     `json:"stage"`
	CreatedAt      time.Time  `json:"created_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	Turns          []turnView `json:"turns"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleInfo(c *gin.Context) {
	info := s.menu.Catalog().Info
	c.JSON(http.StatusOK, gin.H{
		"service":    "callorder-agent",
		"restaurant": info.Name,
		"status":     "ok",
		"greeting":   s.calls.Greeting(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	out, err := s.calls.HandleTurn(c.Request.Context(), call.TurnInput{
		CallID: domain.CallID(c.Param("id")),
		Text:   req.Text,
	})
	if err != nil {
		if errors.Is(err, call.ErrMissingCallID) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		internalError(c, err)
		return
	}

	resp := turnResponse{
		CallID:     string(out.CallID),
		Reply:      out.Reply,
		Stage:      string(out.Stage),
		Reprompt:   out.Reprompt,
		Fallback:   out.Fallback,
		Terminated: out.Terminated,
	}
	if out.Record != nil {
		resp.OrderID = out.Record.OrderID
		resp.Order = &out.Record.Order
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetCall(c *gin.Context) {
	sess, err := s.calls.Session(domain.CallID(c.Param("id")))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		internalError(c, err)
		return
	}

	turns := make([]turnView, 0, len(sess.Turns))
	for _, t := range sess.Turns {
		text := t.Text
		if t.Role == domain.RoleAssistant {
			text = domain.StripMarker(text, s.calls.Marker())
		}
		turns = append(turns, turnView{Role: string(t.Role), Text: text, OccurredAt: t.OccurredAt})
	}

	c.JSON(http.StatusOK, callResponse{
		CallID:         string(sess.CallID),
		Stage:          string(s.calls.Stage(sess)),
		CreatedAt:      sess.CreatedAt,
		LastActivityAt: sess.LastActivityAt,
		Turns:          turns,
	})
}

func (s *Server) handleHangup(c *gin.Context) {
	s.calls.Hangup(c.Request.Context(), domain.CallID(c.Param("id")))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMenu(c *gin.Context) {
	c.JSON(http.StatusOK, s.menu.Catalog())
}

func (s *Server) handleCallStats(c *gin.Context) {
	total, active := s.sessions.Stats()
	c.JSON(http.StatusOK, gin.H{"total": total, "active": active})
}

func (s *Server) handleOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
		return
	}

	recs, err := s.orders.ListRecent(c.Request.Context(), limit)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available": s.orders.Available(),
		"total":     len(recs),
		"orders":    recs,
	})
}

func (s *Server) handleOrderSummary(c *gin.Context) {
	sum, err := s.orders.Summary(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) handleClear(c *gin.Context) {
	sessions := s.sessions.Clear()
	records := 0
	if s.records != nil {
		records = s.records.Clear()
	}

	observability.LoggerFromContext(c.Request.Context()).Info("cache cleared", "sessions", sessions, "orders", records)
	c.JSON(http.StatusOK, gin.H{"success": true, "sessions": sessions, "orders": records})
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func internalError(c *gin.Context, err error) {
	observability.LoggerFromContext(c.Request.Context()).Error("request failed", "error", err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
