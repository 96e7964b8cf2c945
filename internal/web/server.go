package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joelkehle/ethiguide/internal/analysis"
	"github.com/joelkehle/ethiguide/internal/dilemma"
	"github.com/joelkehle/ethiguide/internal/export"
	"github.com/joelkehle/ethiguide/internal/logging"
	"github.com/joelkehle/ethiguide/internal/session"
	"github.com/joelkehle/ethiguide/internal/telemetry"
	"github.com/joelkehle/ethiguide/internal/wizard"
)

//go:embed static
var staticFiles embed.FS

const DefaultCookieName = "ethiguide_session"

type Options struct {
	// PDF renders the export summary. /export.pdf answers 503 when nil.
	PDF          export.PDFRenderer
	Logger       *slog.Logger
	Tracer       trace.Tracer
	Clock        func() time.Time
	CookieName   string
	CookieSecure bool
}

type Server struct {
	sessions     *session.Manager
	pdf          export.PDFRenderer
	logger       *slog.Logger
	tracer       trace.Tracer
	clock        func() time.Time
	cookieName   string
	cookieSecure bool
	pages        *renderer
}

func NewServer(sessions *session.Manager, opts Options) http.Handler {
	s := &Server{
		sessions:     sessions,
		pdf:          opts.PDF,
		logger:       opts.Logger,
		tracer:       opts.Tracer,
		clock:        opts.Clock,
		cookieName:   opts.CookieName,
		cookieSecure: opts.CookieSecure,
		pages:        newRenderer(),
	}
	if s.logger == nil {
		s.logger = logging.New("web")
	}
	if s.tracer == nil {
		s.tracer = telemetry.Tracer()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.cookieName == "" {
		s.cookieName = DefaultCookieName
	}

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/submit", s.traced("submit", s.handleSubmit))
	mux.HandleFunc("/navigate", s.traced("navigate", s.handleNavigate))
	mux.HandleFunc("/step/", s.traced("step", s.handleStep))
	mux.HandleFunc("/export.json", s.traced("export.json", s.handleExportJSON))
	mux.HandleFunc("/export.md", s.traced("export.md", s.handleExportMarkdown))
	mux.HandleFunc("/export.pdf", s.traced("export.pdf", s.handleExportPDF))
	mux.HandleFunc("/api/state", s.traced("state", s.handleState))
	mux.HandleFunc("/reset", s.traced("reset", s.handleReset))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("/", s.traced("root", s.handleRoot))
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) traced(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := s.tracer.Start(r.Context(), "http "+route, trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
		))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		if rec.status >= 500 {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "elapsed", time.Since(start))
	}
}

// withSession runs fn against the caller's session, starting a new one
// (and setting its cookie) when the cookie is missing or stale.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) error {
	ctx := r.Context()
	if c, err := r.Cookie(s.cookieName); err == nil && c.Value != "" {
		err := s.sessions.Do(ctx, c.Value, fn)
		if !errors.Is(err, session.ErrNotFound) {
			return err
		}
	}
	sess, err := s.sessions.Start(ctx)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	s.setCookie(w, sess.Token)
	return s.sessions.Do(ctx, sess.Token, fn)
}

func (s *Server) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessions.TTL() / time.Second),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, what string, err error) {
	trace.SpanFromContext(r.Context()).RecordError(err)
	s.logger.Error(what, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, what)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var view pageView
	if err := s.withSession(w, r, func(sess *session.Session) error {
		view = buildPage(sess)
		return nil
	}); err != nil {
		s.internalError(w, r, "failed to load session", err)
		return
	}
	s.writePage(w, http.StatusOK, view)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	form := formFromRequest(r)
	d := form.dilemma()

	var view pageView
	err := s.withSession(w, r, func(sess *session.Session) error {
		if err := sess.State.Submit(d); err != nil {
			view = buildPage(sess)
			return err
		}
		trace.SpanFromContext(r.Context()).SetAttributes(
			attribute.String("dilemma.category", string(d.Category)),
			attribute.String("dilemma.urgency", string(d.Urgency)),
		)
		return nil
	})
	var ve *dilemma.ValidationError
	switch {
	case errors.As(err, &ve):
		view.showInput(form, ve.Message)
		s.writePage(w, http.StatusUnprocessableEntity, view)
	case err != nil:
		s.internalError(w, r, "failed to submit dilemma", err)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// parseStep reads a step index, reporting 400 for anything outside the wizard.
func parseStep(w http.ResponseWriter, raw string) (wizard.Step, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		writeError(w, http.StatusBadRequest, "step must be an integer")
		return 0, false
	}
	step := wizard.Step(n)
	if !step.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("step must be between 0 and %d", wizard.NumSteps-1))
		return 0, false
	}
	return step, true
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request, step wizard.Step, fn func(*session.Session)) error {
	return s.withSession(w, r, func(sess *session.Session) error {
		moved := sess.State.Navigate(step)
		trace.SpanFromContext(r.Context()).SetAttributes(
			attribute.Int("wizard.target", int(step)),
			attribute.Bool("wizard.moved", moved),
		)
		if fn != nil {
			fn(sess)
		}
		return nil
	})
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	step, ok := parseStep(w, r.FormValue("step"))
	if !ok {
		return
	}
	if err := s.navigate(w, r, step, nil); err != nil {
		s.internalError(w, r, "failed to navigate", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	step, ok := parseStep(w, strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/step/"), "/"))
	if !ok {
		return
	}
	var view pageView
	if err := s.navigate(w, r, step, func(sess *session.Session) { view = buildPage(sess) }); err != nil {
		s.internalError(w, r, "failed to navigate", err)
		return
	}
	s.writePage(w, http.StatusOK, view)
}

type stateResponse struct {
	CurrentStep     wizard.Step       `json:"current_step"`
	HasSubmitted    bool              `json:"has_submitted"`
	ShowCaseStudies bool              `json:"show_case_studies"`
	Steps           []wizard.StepView `json:"steps"`
	Record          *dilemma.Dilemma  `json:"record,omitempty"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var resp stateResponse
	if err := s.withSession(w, r, func(sess *session.Session) error {
		resp = stateResponse{
			CurrentStep:     sess.State.Current(),
			HasSubmitted:    sess.State.HasSubmitted(),
			ShowCaseStudies: sess.State.ShowCaseStudies(),
			Steps:           sess.State.Indicator(),
		}
		if rec, ok := sess.State.Record(); ok {
			resp.Record = &rec
		}
		return nil
	}); err != nil {
		s.internalError(w, r, "failed to load session", err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if c, err := r.Cookie(s.cookieName); err == nil && c.Value != "" {
		if err := s.sessions.End(r.Context(), c.Value); err != nil {
			s.internalError(w, r, "failed to end session", err)
			return
		}
	}
	sess, err := s.sessions.Start(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to start session", err)
		return
	}
	s.setCookie(w, sess.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// summary loads the caller's export summary. It writes 409 and returns false
// while nothing has been submitted.
func (s *Server) summary(w http.ResponseWriter, r *http.Request) (export.Summary, bool) {
	var (
		rec dilemma.Dilemma
		ok  bool
	)
	if err := s.withSession(w, r, func(sess *session.Session) error {
		rec, ok = sess.State.Record()
		return nil
	}); err != nil {
		s.internalError(w, r, "failed to load session", err)
		return export.Summary{}, false
	}
	if !ok {
		writeError(w, http.StatusConflict, "no dilemma submitted yet")
		return export.Summary{}, false
	}
	return export.NewSummary(rec, analysis.Recommend(rec), s.clock()), true
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sum, ok := s.summary(w, r)
	if !ok {
		return
	}
	blob, err := sum.JSON()
	if err != nil {
		s.internalError(w, r, "failed to encode summary", err)
		return
	}
	attachment(w, "application/json", export.Filename(sum.Dilemma, "json"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

func (s *Server) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sum, ok := s.summary(w, r)
	if !ok {
		return
	}
	attachment(w, "text/markdown; charset=utf-8", export.Filename(sum.Dilemma, "md"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sum.Markdown()))
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.pdf == nil {
		writeError(w, http.StatusServiceUnavailable, "pdf renderer unavailable")
		return
	}
	sum, ok := s.summary(w, r)
	if !ok {
		return
	}
	pdf, err := s.renderPDF(r.Context(), sum)
	if err != nil {
		s.internalError(w, r, "failed to render pdf", err)
		return
	}
	attachment(w, "application/pdf", export.Filename(sum.Dilemma, "pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (s *Server) renderPDF(ctx context.Context, sum export.Summary) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "export.pdf")
	defer span.End()
	pdf, err := s.pdf.Render(ctx, sum.Dilemma, sum.Markdown())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("pdf.bytes", len(pdf)))
	return pdf, nil
}
