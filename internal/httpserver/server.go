package httpserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fdg312/nutrition-hub/internal/auth"
	"github.com/fdg312/nutrition-hub/internal/blob"
	"github.com/fdg312/nutrition-hub/internal/catalogs"
	"github.com/fdg312/nutrition-hub/internal/config"
	"github.com/fdg312/nutrition-hub/internal/dailyplans"
	"github.com/fdg312/nutrition-hub/internal/events"
	"github.com/fdg312/nutrition-hub/internal/foods"
	"github.com/fdg312/nutrition-hub/internal/meals"
	"github.com/fdg312/nutrition-hub/internal/rawfoods"
	"github.com/fdg312/nutrition-hub/internal/repair"
	"github.com/fdg312/nutrition-hub/internal/reports"
	"github.com/fdg312/nutrition-hub/internal/respond"
	"github.com/fdg312/nutrition-hub/internal/snapshots"
	"github.com/fdg312/nutrition-hub/internal/storage"
	"github.com/sirupsen/logrus"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	logger         logrus.FieldLogger
	mux            *http.ServeMux
	storage        storage.Storage
	events         events.Publisher
	services       *Services
	authMiddleware *auth.Middleware
	httpServer     *http.Server
}

// New создаёт новый HTTP сервер поверх storage из конфигурации
func New(cfg *config.Config, logger logrus.FieldLogger) *Server {
	return NewWithStorage(cfg, OpenStorage(context.Background(), cfg, logger), logger)
}

// NewWithStorage creates a server on an already opened storage.
func NewWithStorage(cfg *config.Config, store storage.Storage, logger logrus.FieldLogger) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger,
		mux:     http.NewServeMux(),
		storage: store,
		events:  events.New(cfg, logger),
	}

	blobStore, mode, err := blob.NewBlobStore(cfg.Blob, logger)
	if err != nil {
		logger.WithError(err).Warn("blob store unavailable, snapshot export disabled")
	} else {
		logger.WithField("mode", mode).Info("blob store ready")
	}

	s.services = NewServices(cfg, store, blobStore, s.events, logger)
	s.routes(blobStore != nil)
	return s
}

// routes регистрирует маршруты
func (s *Server) routes(snapshotsEnabled bool) {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	if s.config.AuthMode == config.AuthModeDev {
		authService := auth.NewService(s.config)
		s.authMiddleware = auth.NewMiddleware(s.config, authService, s.logger)
		s.mux.HandleFunc("POST /v1/auth/dev", auth.NewHandlers(authService).HandleDevAuth)
	}

	rawfoods.NewHandler(s.services.RawFoods).Register(s.mux)
	foods.NewHandler(s.services.Foods).Register(s.mux)
	meals.NewHandler(s.services.Meals).Register(s.mux)
	dailyplans.NewHandler(s.services.DailyPlans).Register(s.mux)
	catalogs.NewHandler(s.services.Restaurants, s.services.GroceryStores).Register(s.mux)
	reports.NewHandlers(s.services.Reports, s.logger).Register(s.mux)

	s.mux.HandleFunc("POST /v1/admin/repair", repair.NewHandler(s.services.Repair).HandleRepair)
	if snapshotsEnabled {
		s.mux.HandleFunc("POST /v1/admin/snapshots", snapshots.NewHandler(s.services.Snapshots).HandleExport)
	}
}

// Handler returns the router wrapped in the middleware chain
// (outermost first): CORS → rate limit → request log → auth → router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil {
		handler = s.authMiddleware.Wrap(captureSubject(handler))
	}
	handler = RequestLogMiddleware(s.logger, handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.storage.Ping(ctx); err != nil {
		s.logger.WithError(err).Warn("healthz: storage ping failed")
		respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Start запускает HTTP сервер и блокируется до его остановки
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Infof("Сервер запущен на http://localhost%s", addr)
	s.logger.Infof("Health check: http://localhost%s/healthz", addr)

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Close закрывает storage и publisher
func (s *Server) Close() error {
	if closer, ok := s.events.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.logger.WithError(err).Warn("events: close failed")
		}
	}
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
