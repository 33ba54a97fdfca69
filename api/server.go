// Package api exposes pricing and curve bootstrapping over HTTP.
package api

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fxquant/fxlib/cache"
	"github.com/fxquant/fxlib/curve"
	"github.com/fxquant/fxlib/marketdata"
)

type Server struct {
	R             *gin.Engine
	Store         *marketdata.Store
	Curves        *cache.CurveCache
	Logger        *zap.Logger
	DefaultMethod curve.Method
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewServer wires the router, quote store, curve cache, and middleware.
func NewServer(store *marketdata.Store, curves *cache.CurveCache, logger *zap.Logger, defaultMethod curve.Method) *Server {
	g := gin.New()

	// Request ID + logging
	g.Use(func(cn *gin.Context) {
		reqID := cn.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		cn.Writer.Header().Set("X-Request-Id", reqID)
		start := time.Now()
		cn.Next()
		logger.Info("http_request",
			zap.String("request_id", reqID),
			zap.String("method", cn.Request.Method),
			zap.String("path", cn.Request.URL.Path),
			zap.Int("status", cn.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	})

	g.Use(gin.Recovery())

	s := &Server{
		R:             g,
		Store:         store,
		Curves:        curves,
		Logger:        logger,
		DefaultMethod: defaultMethod,
	}

	g.GET("/health", func(cn *gin.Context) { cn.JSON(http.StatusOK, gin.H{"ok": true}) })
	g.POST("/api/v1/price", s.postPrice)
	g.POST("/api/v1/curves", s.postCurves)
	g.GET("/api/v1/curves/:currency/export", s.exportCurve)

	return s
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: msg})
}

func (s *Server) unprocessable(c *gin.Context, msg string) {
	c.JSON(http.StatusUnprocessableEntity, apiError{Code: "unprocessable", Message: msg})
}

func (s *Server) internalError(c *gin.Context, where string, err error) {
	s.Logger.Error("internal_error", zap.String("where", where), zap.Error(err))
	c.JSON(http.StatusInternalServerError, apiError{Code: "internal_server_error", Message: "internal server error"})
}
