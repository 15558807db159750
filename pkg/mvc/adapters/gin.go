package adapters

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// GinAdapter implements WebServer for Gin
type GinAdapter struct {
	engine *gin.Engine

	mu      sync.Mutex
	server  *http.Server
	stopped bool
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(engine *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: engine}
}

// NewDefaultGinAdapter creates a Gin adapter with panic recovery
func NewDefaultGinAdapter() *GinAdapter {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	return &GinAdapter{engine: engine}
}

// Mount sends every method and path to h
func (ga *GinAdapter) Mount(h http.Handler) {
	ga.engine.Any("/*path", gin.WrapH(h))
}

// Start starts the server
func (ga *GinAdapter) Start(addr string) error {
	ga.mu.Lock()
	if ga.stopped {
		ga.mu.Unlock()
		return http.ErrServerClosed
	}
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	srv := ga.server
	ga.mu.Unlock()

	return srv.ListenAndServe()
}

// Stop gracefully stops the server
func (ga *GinAdapter) Stop(ctx context.Context) error {
	ga.mu.Lock()
	ga.stopped = true
	srv := ga.server
	ga.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}
