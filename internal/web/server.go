package web

import (
	"encoding/json"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"strings"

	"depdash/internal/config"
	"depdash/internal/logging"
	"depdash/internal/markdown"
	"depdash/internal/mutate"
	"depdash/internal/store"

	"github.com/CAFxX/httpcompression"
	"github.com/charmbracelet/log"
)

type ServerConfig struct {
	IssuesDir    string
	TemplatePath string
	AllowHTML    bool
	BasicAuth    config.BasicAuth
	Logger       *log.Logger
}

type Server struct {
	cfg       ServerConfig
	store     store.Store
	presenter *Presenter
	plain     *markdown.Extractor
	log       *log.Logger
	compress  func(http.Handler) http.Handler
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.IssuesDir = strings.TrimSpace(cfg.IssuesDir)
	cfg.TemplatePath = strings.TrimSpace(cfg.TemplatePath)
	if cfg.IssuesDir == "" {
		return nil, errors.New("web: issues dir is empty")
	}
	if cfg.BasicAuth.Enabled && cfg.BasicAuth.Username == "" {
		return nil, errors.New("web: basic auth enabled without a username")
	}
	if cfg.BasicAuth.Realm == "" {
		cfg.BasicAuth.Realm = config.DefaultRealm
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:   cfg,
		store: store.New(cfg.IssuesDir),
		presenter: &Presenter{
			Renderer:     markdown.NewRenderer(markdown.Options{AllowHTML: cfg.AllowHTML}),
			TemplatePath: cfg.TemplatePath,
		},
		plain:    markdown.NewExtractor(),
		log:      cfg.Logger,
		compress: compress,
	}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/{project}/{repository}/issues", s.handleIssuesList)
	mux.HandleFunc("POST /api/{project}/{repository}/issues", s.handleIssueWrite)
	mux.HandleFunc("POST /api/{project}/{repository}/issues/update-issue", s.handleIssueUpdate)
	mux.HandleFunc("GET /api/{project}/{repository}/issues/{id}", s.handleIssueGet)
	mux.HandleFunc("PUT /api/{project}/{repository}/issues/{id}", s.handleIssueWrite)

	var h http.Handler = mux
	h = s.compress(h)
	h = requireBasicAuth(s.cfg.BasicAuth, h)
	h = logRequests(s.log, h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleIssuesList(w http.ResponseWriter, r *http.Request) {
	project, repository := r.PathValue("project"), r.PathValue("repository")
	issues, err := s.store.ListIssues(project, repository)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

// handleIssueGet serves the repository's active issue. The {id} segment is
// accepted but not used to pick the file.
func (s *Server) handleIssueGet(w http.ResponseWriter, r *http.Request) {
	project, repository := r.PathValue("project"), r.PathValue("repository")
	issue, ok, err := s.store.FirstIssue(project, repository)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeStatus(w, http.StatusNotFound)
			return
		}
		s.serverError(w, r, err)
		return
	}
	if !ok {
		writeStatus(w, http.StatusNotFound)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, s.presenter.Description(issue.Content))
		return
	}
	page, err := s.presenter.Page(issue.Content)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

// handleIssueUpdate toggles checklist lines matching the dep token. A
// repository without issues, or a body without dep, still gets a 200 and
// leaves the file alone.
func (s *Server) handleIssueUpdate(w http.ResponseWriter, r *http.Request) {
	project, repository := r.PathValue("project"), r.PathValue("repository")
	var req updateIssueRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Dep == nil {
		s.log.Debug("update without dep ignored", "project", project, "repository", repository)
		writeStatus(w, http.StatusOK)
		return
	}

	res, err := mutate.UpdateIssue(s.store, project, repository, *req.Dep, bool(req.Selected), s.plain)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.log.Debug("issue updated",
		"project", project,
		"repository", repository,
		"dep", *req.Dep,
		"selected", bool(req.Selected),
		"found", res.Found,
		"matched", res.Matched,
	)
	writeStatus(w, http.StatusOK)
}

func (s *Server) handleIssueWrite(w http.ResponseWriter, r *http.Request) {
	project, repository := r.PathValue("project"), r.PathValue("repository")
	var req writeIssueRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, "missing title", http.StatusBadRequest)
		return
	}
	if err := s.store.WriteIssue(project, repository, req.Title, req.Description); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeStatus(w, http.StatusInternalServerError)
}

// wantsJSON reports whether the first media range in Accept is
// application/json.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}
	first, _, _ := strings.Cut(accept, ",")
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(first))
	if err != nil {
		return false
	}
	return mt == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(http.StatusText(status)))
}
