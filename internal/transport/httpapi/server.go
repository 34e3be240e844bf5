package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer builds the HTTP server around a gin engine with the handler's
// routes mounted.
func NewServer(addr string, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	handler.Routes(engine)

	return &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
}
