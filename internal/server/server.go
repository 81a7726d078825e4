// Package server exposes the goroots tools over HTTP.
//
//	POST /tool    execute a tool call
//	GET  /schema  tool schema for agent registration
//	GET  /health  liveness check
//	GET  /metrics Prometheus metrics
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/njchilds90/goroots"
	"github.com/njchilds90/goroots/internal/metrics"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// ErrorResponse is the body of every non-200 reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// New returns the router. log receives one entry per request.
func New(log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(requestLogger(log), gin.CustomRecovery(func(c *gin.Context, rec interface{}) {
		log.WithField("request_id", c.GetString("request_id")).Errorf("panic: %v", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}))

	r.POST("/tool", handleTool)
	r.GET("/schema", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(goroots.ToolSpec()))
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	return r
}

func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Header("X-Request-ID", id)
	return id
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestID(c)
		c.Set("request_id", id)
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"took":       time.Since(start).String(),
		}).Info("request")
	}
}

func handleTool(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	var req goroots.ToolRequest
	if err := dec.Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	if dec.More() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: trailing data"})
		return
	}

	start := time.Now()
	resp := goroots.HandleToolCall(req,
		goroots.WithContext(c.Request.Context()),
		goroots.WithIntervalHook(metrics.IntervalHook))
	metrics.RecordTool(req.Tool, resp.Error != "", time.Since(start))
	c.JSON(http.StatusOK, resp)
}
