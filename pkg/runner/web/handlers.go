package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tableflip.dev/taskboard/pkg/board"
	"tableflip.dev/taskboard/pkg/calendar"
	"tableflip.dev/taskboard/pkg/config"
)

const requestIDHeader = "X-Request-ID"

type dropRequest struct {
	ID   string `json:"id" binding:"required"`
	Date string `json:"date"`
}

type folderRequest struct {
	Path string `json:"path"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	board  *board.Board
	log    *log.Logger
	onOpen func()
}

func (h *handlers) register(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/board", h.fragment)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/board", h.snapshot)
	api.POST("/drop", requireJSON(), h.drop)
	api.POST("/month/:direction", h.month)
	api.POST("/folder", requireJSON(), h.folder)
}

func (h *handlers) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", h.board.View())
}

func (h *handlers) fragment(c *gin.Context) {
	c.HTML(http.StatusOK, "board", h.board.View())
}

func (h *handlers) snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.board.View())
}

func (h *handlers) drop(c *gin.Context) {
	var req dropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	moved, err := h.board.Drop(c.Request.Context(), req.ID, board.Location{Date: req.Date})
	switch {
	case errors.Is(err, board.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		// The board already shows the new placement; tell the user the file
		// does not match it.
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	case !moved:
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, h.board.View())
}

func (h *handlers) month(c *gin.Context) {
	switch c.Param("direction") {
	case "prev":
		h.board.PrevMonth()
	case "next":
		h.board.NextMonth()
	case "today":
		h.board.Today()
	default:
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown direction " + c.Param("direction")})
		return
	}
	c.JSON(http.StatusOK, h.board.View())
}

func (h *handlers) folder(c *gin.Context) {
	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	dir, err := config.ExpandDir(req.Path)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if dir == "" {
		// Selection cancelled.
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.board.Open(c.Request.Context(), dir); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if h.onOpen != nil {
		h.onOpen()
	}
	c.JSON(http.StatusOK, h.board.View())
}

// requestID tags every request and response with an id for the access log.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requireJSON rejects bodies that are not application/json. Browsers only send
// that type cross-origin after a preflight, which this server never answers.
func requireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.ContentType() != gin.MIMEJSON {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, errorResponse{Error: "expected " + gin.MIMEJSON})
			return
		}
		c.Next()
	}
}

func accessLog(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", c.GetString("request_id"),
		)
	}
}

// dayLabel is used by the templates for accessible cell titles.
func dayLabel(date string) string {
	t, err := calendar.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2")
}
