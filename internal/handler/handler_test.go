package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/api"
	"github.com/iliyamo/restroom-web/internal/handler"
	"github.com/iliyamo/restroom-web/internal/middleware"
	"github.com/iliyamo/restroom-web/internal/router"
	"github.com/iliyamo/restroom-web/internal/store"
	"github.com/iliyamo/restroom-web/internal/utils"
	"github.com/iliyamo/restroom-web/internal/view"
)

const testSecret = "test-secret"

type apiCall struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

// fakeAPI stands in for the restroom REST API.
type fakeAPI struct {
	mu       sync.Mutex
	calls    []apiCall
	listCode int
	list     string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.calls = append(f.calls, apiCall{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("Authorization"), body})
	listCode, list := f.listCode, f.list
	f.mu.Unlock()

	reply := func(code int, s string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, s)
	}
	switch r.Method + " " + r.URL.Path {
	case "POST /api/login/":
		if body["username"] == "alice" && body["password"] == "abc123" {
			reply(http.StatusOK, `{"token":"tok-alice","user":{"id":1,"username":"alice","email":"a@example.com"}}`)
			return
		}
		if body["username"] == "mallory" {
			reply(http.StatusUnauthorized, `{}`)
			return
		}
		reply(http.StatusBadRequest, `{"error":"Invalid credentials"}`)
	case "POST /api/register/":
		reply(http.StatusCreated, `{"token":"tok-new","user":{"id":2,"username":"`+body["username"].(string)+`"}}`)
	case "POST /api/logout/":
		reply(http.StatusOK, `{"message":"ok"}`)
	case "GET /api/restrooms/":
		reply(listCode, list)
	case "GET /api/restrooms/7/":
		reply(http.StatusOK, `{"id":7,"name":"Library","address":"1 Main St","avg_rating":4.5,"stall_count":2,
			"stalls":[{"id":1,"stall_no":1,"is_occupied":true},{"id":2,"stall_no":2,"is_occupied":false}]}`)
	case "GET /api/reviews/":
		reply(http.StatusOK, `[{"id":3,"restroom":7,"rating":4,"comment_text":"Clean enough","author":{"username":"bob"}}]`)
	case "POST /api/reviews/":
		reply(http.StatusCreated, `{"id":4,"restroom":7,"rating":5}`)
	case "GET /api/profile/":
		reply(http.StatusOK, `{"id":1,"username":"alice","email":"a@example.com"}`)
	case "GET /api/orders/my/":
		reply(http.StatusOK, `[]`)
	case "GET /api/products/":
		reply(http.StatusOK, `[{"id":1,"name":"Soap","unit_price":"3.50","stock_qty":10},{"id":2,"name":"Paper","unit_price":"1.25","stock_qty":0}]`)
	case "POST /api/orders/":
		reply(http.StatusCreated, `{"id":9}`)
	default:
		reply(http.StatusNotFound, `{"detail":"Not found."}`)
	}
}

func (f *fakeAPI) setList(code int, body string) {
	f.mu.Lock()
	f.listCode, f.list = code, body
	f.mu.Unlock()
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) find(method, path string) (apiCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method && f.calls[i].Path == path {
			return f.calls[i], true
		}
	}
	return apiCall{}, false
}

type app struct {
	t    *testing.T
	api  *fakeAPI
	kv   *store.MemoryKV
	prov *store.Provider
	srv  *httptest.Server
	hc   *http.Client
}

func newApp(t *testing.T) *app {
	t.Helper()
	fake := &fakeAPI{listCode: http.StatusOK, list: `[]`}
	apiSrv := httptest.NewServer(fake)
	t.Cleanup(apiSrv.Close)

	kv := store.NewMemoryKV()
	prov := store.NewProvider(kv, "rr", nil)

	e := echo.New()
	e.Renderer = view.MustNew()
	e.HTTPErrorHandler = handler.ErrorHandler
	router.RegisterRoutes(e)
	router.RegisterViews(e, router.Views{
		Handler: handler.New(api.New(apiSrv.URL+"/api", 5*time.Second)),
		Tokens:  prov,
		Visitor: middleware.VisitorConfig{Secret: testSecret, TTL: time.Hour},
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	hc := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &app{t: t, api: fake, kv: kv, prov: prov, srv: srv, hc: hc}
}

func (a *app) do(req *http.Request) (*http.Response, string) {
	a.t.Helper()
	resp, err := a.hc.Do(req)
	if err != nil {
		a.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func (a *app) get(path string) (*http.Response, string) {
	req, _ := http.NewRequest(http.MethodGet, a.srv.URL+path, nil)
	return a.do(req)
}

func (a *app) post(path string, form url.Values) (*http.Response, string) {
	req, _ := http.NewRequest(http.MethodPost, a.srv.URL+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

// tokens returns the visitor's token store, read through the cookie jar.
func (a *app) tokens() *store.TokenStore {
	a.t.Helper()
	u, _ := url.Parse(a.srv.URL)
	for _, ck := range a.hc.Jar.Cookies(u) {
		if ck.Name == middleware.VisitorCookie {
			id, err := utils.ParseVisitorToken(testSecret, ck.Value)
			if err != nil {
				a.t.Fatalf("parse visitor cookie: %v", err)
			}
			return a.prov.For(id)
		}
	}
	a.t.Fatalf("no visitor cookie")
	return nil
}

func (a *app) login() {
	a.t.Helper()
	resp, body := a.post("/login", url.Values{"username": {"alice"}, "password": {"abc123"}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		a.t.Fatalf("login: status %d location %q body %s", resp.StatusCode, resp.Header.Get("Location"), body)
	}
}

func expectRedirect(t *testing.T, resp *http.Response, to string) {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != to {
		t.Fatalf("expected redirect to %s, got %s", to, got)
	}
}

func TestHealth(t *testing.T) {
	a := newApp(t)
	resp, body := a.get("/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("healthz: %d %q", resp.StatusCode, body)
	}
}

func TestProtectedRoutesRedirectWhenLoggedOut(t *testing.T) {
	a := newApp(t)
	for _, p := range []string{"/", "/profile", "/restroom/7", "/products", "/restrooms/new"} {
		resp, _ := a.get(p)
		expectRedirect(t, resp, "/login")
	}
	resp, body := a.get("/login")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `action="/login"`) {
		t.Fatalf("login page: %d", resp.StatusCode)
	}
	if n := a.api.count(); n != 0 {
		t.Fatalf("logged-out navigation must not call the API, got %d calls", n)
	}
}

func TestLoginStoresTokenAndUser(t *testing.T) {
	a := newApp(t)
	a.login()

	ctx := context.Background()
	st := a.tokens()
	if tok, ok := st.Token(ctx); !ok || tok != "tok-alice" {
		t.Fatalf("stored token = %q, %v", tok, ok)
	}
	user, err := st.CurrentUser(ctx)
	if err != nil || user.Username() != "alice" {
		t.Fatalf("stored user = %v, %v", user, err)
	}

	call, ok := a.api.find(http.MethodPost, "/api/login/")
	if !ok || call.Auth != "" {
		t.Fatalf("login call must be anonymous: %+v", call)
	}

	// the next request carries the token and the navbar shows the user
	resp, body := a.get("/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("home: %d", resp.StatusCode)
	}
	if !strings.Contains(body, "alice") {
		t.Fatalf("navbar should show username")
	}
	call, ok = a.api.find(http.MethodGet, "/api/restrooms/")
	if !ok || call.Auth != "Token tok-alice" {
		t.Fatalf("expected token header on list call, got %+v", call)
	}

	resp, _ = a.get("/login")
	expectRedirect(t, resp, "/")
	resp, _ = a.get("/register")
	expectRedirect(t, resp, "/")
}

func TestLoginFailureStaysLoggedOut(t *testing.T) {
	a := newApp(t)
	resp, body := a.post("/login", url.Values{"username": {"alice"}, "password": {"nope"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Invalid credentials") {
		t.Fatalf("expected server message in page")
	}
	if a.kv.Len() != 0 {
		t.Fatalf("failed login must not write storage")
	}
	resp, _ = a.get("/")
	expectRedirect(t, resp, "/login")
}

func TestLoginRejectedWithoutMessage(t *testing.T) {
	a := newApp(t)
	resp, body := a.post("/login", url.Values{"username": {"mallory"}, "password": {"x"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Invalid username or password.") {
		t.Fatalf("expected fallback message in page")
	}
}

func TestLoginRequiresFields(t *testing.T) {
	a := newApp(t)
	resp, body := a.post("/login", url.Values{"username": {" "}})
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "required") {
		t.Fatalf("expected validation error, got %d", resp.StatusCode)
	}
	if _, ok := a.api.find(http.MethodPost, "/api/login/"); ok {
		t.Fatalf("invalid form must not reach the API")
	}
}

func TestRegister(t *testing.T) {
	a := newApp(t)
	resp, body := a.post("/register", url.Values{"username": {"carol"}, "password": {"12345"}})
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "at least 6") {
		t.Fatalf("short password: %d", resp.StatusCode)
	}

	resp, _ = a.post("/register", url.Values{"username": {"carol"}, "email": {"c@example.com"}, "password": {"123456"}})
	expectRedirect(t, resp, "/")
	call, _ := a.api.find(http.MethodPost, "/api/register/")
	if call.Body["email"] != "c@example.com" || call.Auth != "" {
		t.Fatalf("unexpected register call %+v", call)
	}
	if !a.tokens().IsLoggedIn(context.Background()) {
		t.Fatalf("register should log the visitor in")
	}
}

func TestHomeEmptyAndFailedList(t *testing.T) {
	a := newApp(t)
	a.login()

	_, body := a.get("/")
	if !strings.Contains(body, "No restroom data available") || !strings.Contains(body, "Be the first to add a restroom!") {
		t.Fatalf("expected empty state")
	}

	a.api.setList(http.StatusInternalServerError, `{"detail":"boom"}`)
	resp, body := a.get("/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("failed list still renders the page, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Failed to load restroom list") || strings.Contains(body, "No restroom data available") {
		t.Fatalf("expected failure message and no empty state")
	}

	a.api.setList(http.StatusOK, `[{"id":7,"name":"Library","address":"1 Main St","avg_rating":null,"stall_count":0}]`)
	_, body = a.get("/")
	for _, want := range []string{"Library", "No rating", "0 stalls", `href="/restroom/7"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q on home page", want)
		}
	}
}

func TestLogoutClearsStorage(t *testing.T) {
	a := newApp(t)
	a.login()
	if a.kv.Len() != 2 {
		t.Fatalf("expected token and user keys, got %d", a.kv.Len())
	}

	resp, _ := a.post("/logout", nil)
	expectRedirect(t, resp, "/login")
	if a.kv.Len() != 0 {
		t.Fatalf("logout must clear both keys")
	}
	call, ok := a.api.find(http.MethodPost, "/api/logout/")
	if !ok || call.Auth != "Token tok-alice" {
		t.Fatalf("logout should be sent with the token, got %+v", call)
	}

	resp, _ = a.get("/profile")
	expectRedirect(t, resp, "/login")
}

func TestRestroomDetail(t *testing.T) {
	a := newApp(t)
	a.login()

	resp, body := a.get("/restroom/7")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("detail: %d", resp.StatusCode)
	}
	for _, want := range []string{"Library", "4.5", "Clean enough", "bob", "1 free"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q on detail page", want)
		}
	}
	call, _ := a.api.find(http.MethodGet, "/api/reviews/")
	if call.Query != "restroom_id=7" {
		t.Fatalf("reviews must be filtered by restroom, got %q", call.Query)
	}

	resp, body = a.get("/restroom/404")
	if resp.StatusCode != http.StatusNotFound || !strings.Contains(body, "Restroom not found.") {
		t.Fatalf("missing restroom: %d", resp.StatusCode)
	}
	resp, _ = a.get("/restroom/abc")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("bad id: %d", resp.StatusCode)
	}
}

func TestCreateReview(t *testing.T) {
	a := newApp(t)
	a.login()

	resp, body := a.post("/restroom/7/reviews", url.Values{"rating": {"9"}})
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "between 1 and 5") {
		t.Fatalf("invalid rating: %d", resp.StatusCode)
	}
	if _, ok := a.api.find(http.MethodPost, "/api/reviews/"); ok {
		t.Fatalf("invalid review must not reach the API")
	}

	resp, _ = a.post("/restroom/7/reviews", url.Values{"rating": {"5"}, "comment_text": {" spotless "}})
	expectRedirect(t, resp, "/restroom/7?notice=review")
	call, _ := a.api.find(http.MethodPost, "/api/reviews/")
	if call.Body["restroom"] != float64(7) || call.Body["rating"] != float64(5) || call.Body["comment_text"] != "spotless" {
		t.Fatalf("unexpected review body %+v", call.Body)
	}
}

func TestCreateOrder(t *testing.T) {
	a := newApp(t)
	a.login()

	resp, body := a.post("/orders", url.Values{"restroom": {"7"}, "qty_1": {"0"}})
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "at least one item") {
		t.Fatalf("empty order: %d", resp.StatusCode)
	}

	resp, _ = a.post("/orders", url.Values{"restroom": {"7"}, "qty_1": {"3"}, "qty_2": {""}})
	expectRedirect(t, resp, "/profile?notice=order")
	call, _ := a.api.find(http.MethodPost, "/api/orders/")
	items, _ := call.Body["items"].(map[string]any)
	if len(items) != 1 || items["1"] != float64(3) || call.Body["total_amount"] != "10.50" {
		t.Fatalf("unexpected order body %+v", call.Body)
	}
}

func TestProfile(t *testing.T) {
	a := newApp(t)
	a.login()

	resp, body := a.get("/profile?notice=profile")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile: %d", resp.StatusCode)
	}
	if !strings.Contains(body, "a@example.com") || !strings.Contains(body, "No orders yet") || !strings.Contains(body, "Profile updated.") {
		t.Fatalf("unexpected profile page")
	}
}
