package shopware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeShop is a minimal stand-in for the admin API: token endpoint,
// per-entity search, product create/update and the two-step media upload.
type fakeShop struct {
	mu sync.Mutex

	currencies   map[string]string // symbol -> id
	categories   map[string]string // name -> id
	taxes        map[string]string // name -> id
	mediaFolders map[string]string // name -> id
	products     map[string]string // name -> id

	expiresIn   int
	authFail    bool
	refreshFail bool

	// registerCreates makes a product create visible to later name lookups,
	// like the real shop would.
	registerCreates bool

	failUploadURLs map[string]bool

	tokenGrants     []string
	searchCalls     map[string]int
	createdPayloads []ProductPayload
	updatedPayloads []ProductPayload
	updatedIDs      []string
	mediaCreated    []string // ids, in create order
	mediaUploaded   []string // ids that completed the upload step
}

func newFakeShop() *fakeShop {
	return &fakeShop{
		currencies:     map[string]string{},
		categories:     map[string]string{},
		taxes:          map[string]string{"Standard rate": "tax-standard"},
		mediaFolders:   map[string]string{"Product Media": "folder-product"},
		products:       map[string]string{},
		expiresIn:      600,
		failUploadURLs: map[string]bool{},
		searchCalls:    map[string]int{},
	}
}

func (f *fakeShop) start(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/oauth/token", f.handleToken)
	mux.HandleFunc("/api/search/", f.authorized(f.handleSearch))
	mux.HandleFunc("/api/product", f.authorized(f.handleProductCreate))
	mux.HandleFunc("/api/product/", f.authorized(f.handleProductUpdate))
	mux.HandleFunc("/api/media", f.authorized(f.handleMediaCreate))
	mux.HandleFunc("/api/_action/media/", f.authorized(f.handleMediaUpload))

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func (f *fakeShop) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"errors":[{"detail":"missing token"}]}`)
			return
		}
		next(w, r)
	}
}

func (f *fakeShop) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.tokenGrants = append(f.tokenGrants, req.GrantType)
	n := len(f.tokenGrants)
	authFail, refreshFail, expiresIn := f.authFail, f.refreshFail, f.expiresIn
	f.mu.Unlock()

	if (req.GrantType == "password" && authFail) || (req.GrantType == "refresh_token" && refreshFail) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errors":[{"detail":"invalid grant"}]}`)
		return
	}

	_ = json.NewEncoder(w).Encode(tokenResponse{
		TokenType:    "Bearer",
		AccessToken:  fmt.Sprintf("token-%d", n),
		RefreshToken: fmt.Sprintf("refresh-%d", n),
		ExpiresIn:    expiresIn,
	})
}

func (f *fakeShop) handleSearch(w http.ResponseWriter, r *http.Request) {
	entity := strings.TrimPrefix(r.URL.Path, "/api/search/")

	var req searchRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.searchCalls[entity]++
	var table map[string]string
	var key string
	switch entity {
	case "currency":
		table, key = f.currencies, req.Filter["symbol"]
	case "category":
		table, key = f.categories, req.Filter["name"]
	case "tax":
		table, key = f.taxes, req.Filter["name"]
	case "media-folder":
		table, key = f.mediaFolders, req.Filter["name"]
	case "product":
		table, key = f.products, req.Filter["name"]
	}
	id, ok := table[key]
	f.mu.Unlock()

	resp := searchResponse{Data: []searchHit{}}
	if ok {
		resp.Data = append(resp.Data, searchHit{ID: id})
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeShop) handleProductCreate(w http.ResponseWriter, r *http.Request) {
	var payload ProductPayload
	_ = json.NewDecoder(r.Body).Decode(&payload)

	f.mu.Lock()
	f.createdPayloads = append(f.createdPayloads, payload)
	if f.registerCreates {
		f.products[payload.Name] = fmt.Sprintf("prod-%d", len(f.products)+1)
	}
	f.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeShop) handleProductUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload ProductPayload
	_ = json.NewDecoder(r.Body).Decode(&payload)

	f.mu.Lock()
	f.updatedPayloads = append(f.updatedPayloads, payload)
	f.updatedIDs = append(f.updatedIDs, strings.TrimPrefix(r.URL.Path, "/api/product/"))
	f.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeShop) handleMediaCreate(w http.ResponseWriter, r *http.Request) {
	var req mediaCreateRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.mediaCreated = append(f.mediaCreated, req.ID)
	f.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeShop) handleMediaUpload(w http.ResponseWriter, r *http.Request) {
	// /api/_action/media/<id>/upload
	rest := strings.TrimPrefix(r.URL.Path, "/api/_action/media/")
	mediaID := strings.TrimSuffix(rest, "/upload")

	var req mediaUploadRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	fail := f.failUploadURLs[req.URL]
	if !fail {
		f.mediaUploaded = append(f.mediaUploaded, mediaID)
	}
	f.mu.Unlock()

	if fail {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"errors":[{"detail":"upload failed"}]}`)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeShop) searchCount(entity string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls[entity]
}

func (f *fakeShop) created() []ProductPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ProductPayload{}, f.createdPayloads...)
}

func (f *fakeShop) updated() []ProductPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ProductPayload{}, f.updatedPayloads...)
}

func (f *fakeShop) grants() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.tokenGrants...)
}

// newTestClient builds an authenticated client against the fake shop.
func newTestClient(t *testing.T, ts *httptest.Server) *Client {
	t.Helper()

	c := New(Config{
		URL:            ts.URL,
		Username:       "admin",
		Password:       "secret",
		SalesChannelID: "sales-channel-1",
		Timeout:        5 * time.Second,
	}, zaptest.NewLogger(t).Sugar())

	c.Start()
	t.Cleanup(c.Stop)
	require.NoError(t, c.Auth(context.Background()))
	return c
}
