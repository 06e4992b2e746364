package proxy

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/grouping"
	"moirai-dashboard/src/provider"
)

// serverInfo is what the browser may know about a server.
type serverInfo struct {
	ID   string        `json:"id"`
	Name string        `json:"name"`
	Type provider.Kind `json:"type"`
	URL  string        `json:"url"`
}

func (s *Server) handleServers(w http.ResponseWriter, r *http.Request) {
	servers := s.registry.Servers()
	out := make([]serverInfo, 0, len(servers))
	for _, srv := range servers {
		out = append(out, serverInfo{ID: srv.ID, Name: srv.Name, Type: srv.Type, URL: srv.URL})
	}
	respondJSON(w, http.StatusOK, out)
}

// handleProxy forwards GET /proxy/{serverId}/{rest} to {url}/api/{rest}.
// The upstream status, body and content type are relayed unchanged.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	client, err := s.registry.Client(chi.URLParam(r, "serverId"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Server not found")
		return
	}

	resp, err := client.Do(r.Context(), http.MethodGet, chi.URLParam(r, "*"), r.URL.RawQuery, nil)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

func (s *Server) handleRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := s.dashboard.Repos(r.Context(), chi.URLParam(r, "serverId"))
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, repos)
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	tab := chi.URLParam(r, "tab")
	if !knownTab(tab) {
		respondError(w, http.StatusNotFound, "Unknown tab")
		return
	}
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	view, err := s.dashboard.View(snap, tab, listOptions(r))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		respondError(w, http.StatusBadRequest, "key is required")
		return
	}
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.dashboard.Details(snap, key))
}

func (s *Server) handleAllTabs(w http.ResponseWriter, r *http.Request) {
	period, ok := s.period(w, r)
	if !ok {
		return
	}
	tabs := s.dashboard.LoadAll(r.Context(), chi.URLParam(r, "serverId"), repoParam(r), period, listOptions(r))
	respondJSON(w, http.StatusOK, tabs)
}

func (s *Server) loadSnapshot(w http.ResponseWriter, r *http.Request) (*dashboard.Snapshot, bool) {
	period, ok := s.period(w, r)
	if !ok {
		return nil, false
	}
	snap, err := s.dashboard.Load(r.Context(), chi.URLParam(r, "serverId"), repoParam(r), period)
	if err != nil {
		respondUpstreamError(w, err)
		return nil, false
	}
	return snap, true
}

// period reads ?period=, 0 meaning the configured default.
func (s *Server) period(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return 0, true
	}
	p, err := strconv.Atoi(raw)
	if err == nil {
		err = s.validate.Var(p, "oneof=7 14 30 90")
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "period must be one of 7, 14, 30, 90")
		return 0, false
	}
	return p, true
}

func repoParam(r *http.Request) provider.Repo {
	return provider.Repo{Owner: chi.URLParam(r, "owner"), Name: chi.URLParam(r, "name")}
}

func listOptions(r *http.Request) dashboard.ListOptions {
	q := r.URL.Query()
	return dashboard.ListOptions{Query: q.Get("q"), Sort: grouping.Mode(q.Get("sort"))}
}

func knownTab(tab string) bool {
	for _, t := range dashboard.TabNames {
		if t == tab {
			return true
		}
	}
	return false
}

// respondUpstreamError maps CI errors: unknown server is 404, an upstream
// status is relayed as 502 with the status in the message.
func respondUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, provider.ErrServerNotFound) {
		respondError(w, http.StatusNotFound, "Server not found")
		return
	}
	respondError(w, http.StatusBadGateway, err.Error())
}

// sensitiveFiles are never served even if present in the static dir.
var sensitiveFiles = map[string]bool{
	"server.py":   true,
	".env":        true,
	"config.js":   true,
	"moirai.yaml": true,
}

// staticFiles serves files from dir by exact name; "/" and directories
// serve their index.html. Unlike http.FileServer it never redirects
// /index.html, so named files always answer 200.
func staticFiles(dir string) http.HandlerFunc {
	root := http.Dir(dir)
	return func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + strings.TrimPrefix(r.URL.Path, "/"))
		if sensitiveFiles[path.Base(name)] {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		f, info, err := openStatic(root, name)
		if err != nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	}
}

func openStatic(root http.FileSystem, name string) (http.File, fs.FileInfo, error) {
	f, err := root.Open(name)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.IsDir() {
		return f, info, nil
	}
	f.Close()
	return openStatic(root, path.Join(name, "index.html"))
}
