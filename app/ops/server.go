package ops

import (
	"net/http"
	"time"

	"github.com/yegor77/pipeline-portwatch/app/ops/controller"
	"go.uber.org/zap"
)

// NewServer builds the ops HTTP server. Use <ip>:<port> to bind to a specific
// interface or :<port> to bind to all interfaces.
func NewServer(addr string, deps controller.Deps) *http.Server {
	ctler := controller.NewController(deps)
	deps.Logger.Info("Starting ops server", zap.String("addr", addr))
	return &http.Server{
		Addr:              addr,
		Handler:           controller.WithCORS(ctler.NewRouter()),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
