package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files
)

// RouteRegistrar mounts a group of routes on the engine.
type RouteRegistrar interface {
	Register(r gin.IRoutes)
}

type Option func(*httpServer)

// WithCORS adds the permissive CORS middleware and answers every OPTIONS
// preflight with an empty 200.
func WithCORS() Option {
	return func(h *httpServer) { h.cors = true }
}

// WithAPIDocs serves the swagger UI and the API spec directory.
func WithAPIDocs(specDir string) Option {
	return func(h *httpServer) { h.specDir = specDir }
}

type httpServer struct {
	name       string
	listenPort uint16
	srv        *http.Server
	routes     []RouteRegistrar
	cors       bool
	specDir    string
	ctx        context.Context
}

func NewHttpServer(ctx context.Context, name string, listenPort uint16, routes []RouteRegistrar, opts ...Option) *httpServer {
	h := &httpServer{
		name:       name,
		listenPort: listenPort,
		routes:     routes,
		ctx:        ctx,
	}
	for _, o := range opts {
		o(h)
	}
	// built up front so Dispose never races Start
	h.srv = &http.Server{Handler: h.Engine()}
	return h
}

// Engine builds the gin engine with every middleware and route mounted.
func (h *httpServer) Engine() *gin.Engine {
	routerEngine := gin.New()

	routerEngine.Use(ginzap.Ginzap(zap.L().Named(h.name), time.RFC3339, true))
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))
	if h.cors {
		routerEngine.Use(CORS())
	}

	if h.specDir != "" {
		routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
		routerEngine.Static("/api-specs", h.specDir)
	}

	for _, r := range h.routes {
		r.Register(routerEngine)
	}
	return routerEngine
}

// Start blocks serving until Dispose is called.
func (h *httpServer) Start() error {
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	zap.L().Info("http_listen", zap.String("server", h.name), zap.String("addr", listenAddr))

	// after Dispose, Serve closes ln and reports ErrServerClosed
	err = h.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in‑flight requests to finish.
func (h *httpServer) Dispose() error {
	// The parent context is usually already cancelled at this point.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(h.ctx), 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.String("server", h.name), zap.Error(err))
		return err
	}
	return nil
}
