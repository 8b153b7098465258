// ABOUTME: Browser UI server: chi routes translating htmx form posts into controller commands
// ABOUTME: Serves the full shell at /, app fragments to htmx, toasts and prometheus metrics
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/notify"
	"github.com/harperreed/friendlog/render"
)

// Config wires the server to the controller it drives.
type Config struct {
	Controller *app.Controller
	HTML       *render.HTML
	Toasts     *notify.Stack
	Logger     *zap.Logger
	// Gatherer backs /metrics; nil serves the default registry.
	Gatherer prometheus.Gatherer
}

type Server struct {
	ctrl   *app.Controller
	html   *render.HTML
	toasts *notify.Stack
	log    *zap.Logger
	router chi.Router
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Controller == nil {
		return nil, fmt.Errorf("controller is required")
	}
	if cfg.HTML == nil {
		return nil, fmt.Errorf("html renderer is required")
	}
	if cfg.Toasts == nil {
		cfg.Toasts = notify.NewStack()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		ctrl:   cfg.Controller,
		html:   cfg.HTML,
		toasts: cfg.Toasts,
		log:    cfg.Logger.Named("web"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/toasts", s.handleToasts)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Post("/nav/{page}", s.handleNavigate)
	r.Post("/modals/log/open", s.handleOpenLog)
	r.Post("/modals/friend/open", s.handleOpenFriend)
	r.Post("/modals/{modal}/dismiss", s.handleDismiss)
	r.Post("/log/type/{type}", s.handleSelectType)
	r.Post("/log/friend", s.handleSelectFriend)
	r.Post("/log/submit", s.handleSubmitInteraction)
	r.Post("/friends/submit", s.handleSubmitFriend)
	r.Post("/friends/{id}/delete", s.handleRequestDelete(app.DeleteFriend))
	r.Post("/interactions/{id}/delete", s.handleRequestDelete(app.DeleteInteraction))
	r.Post("/confirm", s.handleCommand(app.ConfirmDelete{}))
	r.Post("/cancel", s.handleCommand(app.CancelDelete{}))
	r.Post("/escape", s.handleCommand(app.KeyEscape{}))
	r.Post("/refresh", s.handleCommand(app.Refresh{}))

	r.Post("/toasts/{id}/dismiss", s.handleToastDismiss)
	r.Post("/toasts/{id}/pause", s.handleToastHover(s.toasts.Pause))
	r.Post("/toasts/{id}/resume", s.handleToastHover(s.toasts.Resume))
	r.Post("/toasts/{id}/action", s.handleToastAction)

	s.router = r
	return s, nil
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting web server", zap.String("url", "http://"+addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("web server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.html.Page(&buf, s.ctrl.State(), s.toasts.Toasts()); err != nil {
		s.renderError(w, r, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) handleToasts(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.html.Toasts(&buf, s.toasts.Toasts()); err != nil {
		s.renderError(w, r, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, app.Navigate{Page: app.Page(chi.URLParam(r, "page"))})
}

func (s *Server) handleOpenLog(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, app.OpenLogModal{})
}

func (s *Server) handleOpenFriend(w http.ResponseWriter, r *http.Request) {
	id, ok, err := optionalInt(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cmd := app.OpenFriendModal{}
	if ok {
		cmd.ID = app.IntPtr(id)
	}
	s.dispatch(w, r, cmd)
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	modal, err := app.ParseModal(chi.URLParam(r, "modal"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.dispatch(w, r, app.Dismiss{Modal: modal, Reason: parseReason(r.URL.Query().Get("reason"))})
}

func (s *Server) handleSelectType(w http.ResponseWriter, r *http.Request) {
	t, err := models.ParseInteractionType(chi.URLParam(r, "type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The type buttons include the log form so a friend picked without a
	// change event still sticks.
	friendID, ok, err := optionalInt(r, "friend_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if ok {
		if err := s.ctrl.Dispatch(r.Context(), app.SelectFriend{ID: friendID}); err != nil {
			s.commandError(w, err)
			return
		}
	}
	s.dispatch(w, r, app.SelectInteractionType{Type: t})
}

func (s *Server) handleSelectFriend(w http.ResponseWriter, r *http.Request) {
	friendID, _, err := optionalInt(r, "friend_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, app.SelectFriend{ID: friendID})
}

func (s *Server) handleSubmitInteraction(w http.ResponseWriter, r *http.Request) {
	friendID, _, err := optionalInt(r, "friend_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.dispatch(w, r, app.SubmitInteraction{
		FriendID: friendID,
		Type:     models.InteractionType(strings.TrimSpace(r.PostFormValue("type"))),
		Notes:    r.PostFormValue("notes"),
	})
}

func (s *Server) handleSubmitFriend(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, app.SubmitFriend{Form: models.FriendInput{
		Name:       r.PostFormValue("name"),
		Email:      r.PostFormValue("email"),
		Phone:      r.PostFormValue("phone"),
		Preference: r.PostFormValue("preference"),
		Avatar:     r.PostFormValue("avatar"),
		Bio:        r.PostFormValue("bio"),
	}})
}

func (s *Server) handleRequestDelete(kind app.DeleteKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		s.dispatch(w, r, app.RequestDelete{Kind: kind, ID: id})
	}
}

func (s *Server) handleCommand(cmd app.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.dispatch(w, r, cmd)
	}
}

func (s *Server) handleToastDismiss(w http.ResponseWriter, r *http.Request) {
	s.toasts.Dismiss(chi.URLParam(r, "id"))
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.handleToasts(w, r)
}

// handleToastHover pauses or resumes a toast timer. htmx swaps nothing.
func (s *Server) handleToastHover(fn func(id string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !fn(chi.URLParam(r, "id")) {
			http.Error(w, "toast not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleToastAction(w http.ResponseWriter, r *http.Request) {
	if !s.toasts.Trigger(chi.URLParam(r, "id")) {
		http.Error(w, "toast not found", http.StatusNotFound)
		return
	}
	s.respond(w, r)
}

// dispatch applies cmd and answers with the re-rendered app.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, cmd app.Command) {
	if err := s.ctrl.Dispatch(r.Context(), cmd); err != nil {
		s.commandError(w, err)
		return
	}
	s.respond(w, r)
}

// respond sends htmx the #app fragment; plain form posts are redirected
// back to the shell.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	var buf bytes.Buffer
	if err := s.html.Fragment(&buf, s.ctrl.State(), s.toasts.Toasts()); err != nil {
		s.renderError(w, r, err)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) commandError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, app.ErrUnknownPage) {
		status = http.StatusNotFound
	}
	s.log.Debug("command rejected", zap.Error(err))
	http.Error(w, err.Error(), status)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("template error",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	http.Error(w, "failed to render page", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// optionalInt reads a form or query value. Blank values report ok=false.
func optionalInt(r *http.Request, key string) (int, bool, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, true, nil
}

func parseReason(s string) app.DismissReason {
	switch r := app.DismissReason(s); r {
	case app.DismissOverlay, app.DismissEscape:
		return r
	}
	return app.DismissControl
}

// requestLogger logs each request with zap once it completes.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debug("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
