package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

const (
	testToken   = "ghs_integration"
	testOwner   = "okcodes"
	testRepo    = "tauri-app"
	testRelease = int64(101)
)

// releaseAsset is the subset of the GitHub release asset payload used by the tool.
type releaseAsset struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// fakeGitHub serves the release asset endpoints of one release from memory.
type fakeGitHub struct {
	mu       sync.Mutex
	server   *httptest.Server
	nextID   int64
	assets   []releaseAsset
	contents map[int64]string
	deleted  []string
	requests atomic.Int64
}

// newFakeGitHub starts a fake API server that lists assets three per page.
func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()

	f := &fakeGitHub{
		nextID:   1,
		contents: make(map[int64]string),
	}

	base := fmt.Sprintf("/repos/%s/%s/releases", testOwner, testRepo)

	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("%s/%d/assets", base, testRelease), f.handleReleaseAssets)
	mux.HandleFunc(base+"/assets/", f.handleAsset)

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)

	return f
}

// add registers an asset with the given downloadable content.
func (f *fakeGitHub) add(name, content string) releaseAsset {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++

	asset := releaseAsset{
		ID:   id,
		Name: name,
		URL:  fmt.Sprintf("%s/repos/%s/%s/releases/assets/%d", f.server.URL, testOwner, testRepo, id),
	}

	f.assets = append(f.assets, asset)
	f.contents[id] = content

	return asset
}

// content returns the stored content of the asset called name.
func (f *fakeGitHub) content(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, asset := range f.assets {
		if asset.Name == name {
			return f.contents[asset.ID], true
		}
	}

	return "", false
}

func (f *fakeGitHub) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")

	return header == "Bearer "+testToken || header == "token "+testToken
}

func (f *fakeGitHub) handleReleaseAssets(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	switch r.Method {
	case http.MethodGet:
		f.listAssets(w, r)
	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		asset := f.add(r.URL.Query().Get("name"), string(body))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(asset)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeGitHub) listAssets(w http.ResponseWriter, r *http.Request) {
	const pageSize = 3

	f.mu.Lock()
	defer f.mu.Unlock()

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	start := min((page-1)*pageSize, len(f.assets))
	end := min(start+pageSize, len(f.assets))

	if end < len(f.assets) {
		w.Header().Set("Link", fmt.Sprintf(`<%s%s?page=%d>; rel="next"`, f.server.URL, r.URL.Path, page+1))
	}

	_ = json.NewEncoder(w).Encode(append([]releaseAsset{}, f.assets[start:end]...))
}

func (f *fakeGitHub) handleAsset(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	id, err := strconv.ParseInt(r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		content, ok := f.contents[id]
		if !ok || r.Header.Get("Accept") != "application/octet-stream" {
			writeError(w, http.StatusNotFound, "Not Found")
			return
		}

		_, _ = io.WriteString(w, content)
	case http.MethodDelete:
		kept := make([]releaseAsset, 0, len(f.assets))

		for _, asset := range f.assets {
			if asset.ID == id {
				f.deleted = append(f.deleted, asset.Name)
				continue
			}

			kept = append(kept, asset)
		}

		f.assets = kept
		delete(f.contents, id)

		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"message":%q}`, message)
}
