package handler

import (
	"context"
	"encoding/base64"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/concreteguy/homepage/internal/config"
	"github.com/concreteguy/homepage/internal/domain"
	"github.com/concreteguy/homepage/internal/markdown"
	mw "github.com/concreteguy/homepage/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockAuthService struct {
	MockLogin       func(creds domain.Credentials) (domain.Session, error)
	MockLogout      func(id domain.SessionId) error
	MockCurrentUser func(id domain.SessionId) (*domain.User, error)
	MockCreateUser  func(creds domain.Credentials, admin bool) (domain.UserId, error)
}

func (m *MockAuthService) Login(creds domain.Credentials) (domain.Session, error) {
	if m.MockLogin != nil {
		return m.MockLogin(creds)
	}
	return domain.Session{}, nil
}

func (m *MockAuthService) Logout(id domain.SessionId) error {
	if m.MockLogout != nil {
		return m.MockLogout(id)
	}
	return nil
}

func (m *MockAuthService) CurrentUser(id domain.SessionId) (*domain.User, error) {
	if m.MockCurrentUser != nil {
		return m.MockCurrentUser(id)
	}
	return nil, nil
}

func (m *MockAuthService) CreateUser(creds domain.Credentials, admin bool) (domain.UserId, error) {
	if m.MockCreateUser != nil {
		return m.MockCreateUser(creds, admin)
	}
	return 1, nil
}

type MockBlogService struct {
	MockList   func() ([]domain.Post, error)
	MockGet    func(id domain.PostId) (domain.Post, error)
	MockCreate func(title domain.PostTitle, body domain.PostBody) (domain.Post, error)
	MockUpdate func(id domain.PostId, title domain.PostTitle, body domain.PostBody) (domain.Post, error)
	MockDelete func(id domain.PostId) error
}

func (m *MockBlogService) List() ([]domain.Post, error) {
	if m.MockList != nil {
		return m.MockList()
	}
	return nil, nil
}

func (m *MockBlogService) Get(id domain.PostId) (domain.Post, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.Post{Id: id}, nil
}

func (m *MockBlogService) Create(title domain.PostTitle, body domain.PostBody) (domain.Post, error) {
	if m.MockCreate != nil {
		return m.MockCreate(title, body)
	}
	return domain.Post{Id: 1, Title: title, Body: body}, nil
}

func (m *MockBlogService) Update(id domain.PostId, title domain.PostTitle, body domain.PostBody) (domain.Post, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(id, title, body)
	}
	return domain.Post{Id: id, Title: title, Body: body}, nil
}

func (m *MockBlogService) Delete(id domain.PostId) error {
	if m.MockDelete != nil {
		return m.MockDelete(id)
	}
	return nil
}

type MockMessageService struct {
	MockSubmit func(name, email string, text domain.MsgText) (domain.Message, error)
	MockList   func() ([]domain.Message, error)
	MockGet    func(id domain.MsgId) (domain.Message, error)
	MockEdit   func(id domain.MsgId, name, email string, text domain.MsgText) (domain.Message, error)
	MockDelete func(id domain.MsgId) error
}

func (m *MockMessageService) Submit(name, email string, text domain.MsgText) (domain.Message, error) {
	if m.MockSubmit != nil {
		return m.MockSubmit(name, email, text)
	}
	return domain.Message{Id: 1, Name: name, Email: email, Text: text}, nil
}

func (m *MockMessageService) List() ([]domain.Message, error) {
	if m.MockList != nil {
		return m.MockList()
	}
	return nil, nil
}

func (m *MockMessageService) Get(id domain.MsgId) (domain.Message, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.Message{Id: id}, nil
}

func (m *MockMessageService) Edit(id domain.MsgId, name, email string, text domain.MsgText) (domain.Message, error) {
	if m.MockEdit != nil {
		return m.MockEdit(id, name, email, text)
	}
	return domain.Message{Id: id, Name: name, Email: email, Text: text}, nil
}

func (m *MockMessageService) Delete(id domain.MsgId) error {
	if m.MockDelete != nil {
		return m.MockDelete(id)
	}
	return nil
}

type MockSessionCookies struct {
	MockSet   func(w http.ResponseWriter, session domain.Session) error
	MockClear func(w http.ResponseWriter)
}

func (m *MockSessionCookies) SetSessionCookie(w http.ResponseWriter, session domain.Session) error {
	if m.MockSet != nil {
		return m.MockSet(w, session)
	}
	return nil
}

func (m *MockSessionCookies) ClearSessionCookie(w http.ResponseWriter) {
	if m.MockClear != nil {
		m.MockClear(w)
	}
}

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// --- Helpers ---

func testTemplates() map[string]*template.Template {
	pages := map[string]string{
		"index.html":         `{{.Common.Error}}|{{range .Data.Posts}}{{.Title}};{{end}}|{{range .Data.Videos}}{{.}};{{end}}`,
		"blog.html":          `{{range .Data.Posts}}{{.Title}};{{end}}`,
		"post.html":          `{{.Data.Title}}:{{.Data.HTML}}`,
		"create.html":        `{{.Common.Error}}|{{.Data.Title}}|{{.Data.Content}}`,
		"update.html":        `{{.Common.Error}}|{{.Data.Id}}|{{.Data.Title}}`,
		"login.html":         `login|{{.Common.Error}}`,
		"view_messages.html": `{{.Common.Success}}|{{.Common.Error}}|{{range .Data.Messages}}{{.Name}};{{end}}`,
		"edit_message.html":  `{{.Common.Error}}|{{.Data.Name}}|{{.Data.Email}}|{{.Data.Message}}`,
		"about.html":         `about`,
		"videos.html":        `{{range .Data.Videos}}{{.}};{{end}}`,
		"error.html":         `error {{.Data.Code}}`,
	}
	templates := make(map[string]*template.Template, len(pages))
	for name, text := range pages {
		templates[name] = template.Must(template.New(name).Parse(text))
	}
	return templates
}

type testDeps struct {
	auth    *MockAuthService
	blog    *MockBlogService
	message *MockMessageService
	cookies *MockSessionCookies
	health  *MockHealthChecker
}

func newTestHandler(t *testing.T, public config.Public) (*Handler, *testDeps) {
	t.Helper()
	deps := &testDeps{
		auth:    &MockAuthService{},
		blog:    &MockBlogService{},
		message: &MockMessageService{},
		cookies: &MockSessionCookies{},
		health:  &MockHealthChecker{},
	}
	h := New(testTemplates(), public, markdown.New(), deps.auth, deps.blog, deps.message, deps.cookies, deps.health)
	return h, deps
}

// withUser puts a resolved request context on every request, as LoadSession would.
func withUser(user *domain.User, session *domain.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := mw.WithRequestContext(r.Context(), domain.RequestContext{User: user, Session: session})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setupTestRouter(h *Handler, user *domain.User, session *domain.Session) *chi.Mux {
	r := chi.NewRouter()
	r.Use(withUser(user, session))
	r.NotFound(h.NotFoundHandler)

	r.Get("/", h.IndexGetHandler)
	r.Get("/blogs", h.BlogsGetHandler)
	r.Get("/about", h.AboutGetHandler)
	r.Get("/videos", h.VideosGetHandler)
	r.Get("/post/{id}", h.PostGetHandler)
	r.Get("/login", h.LoginGetHandler)
	r.Post("/login", h.LoginPostHandler)
	r.Get("/logout", h.LogoutHandler)
	r.Get("/create", h.CreateGetHandler)
	r.Post("/create", h.CreatePostHandler)
	r.Get("/update/{id}", h.UpdateGetHandler)
	r.Post("/update/{id}", h.UpdatePostHandler)
	r.Get("/delete/{id}", h.DeleteHandler)
	r.Post("/message", h.MessagePostHandler)
	r.Get("/dashboard", h.MessagesGetHandler)
	r.Get("/view_messages", h.MessagesGetHandler)
	r.Get("/message/{id}/edit", h.EditMessageGetHandler)
	r.Post("/message/{id}/edit", h.EditMessagePostHandler)
	r.Post("/message/{id}/delete", h.DeleteMessagePostHandler)
	r.Get("/health", h.Health)
	return r
}

func formRequest(target string, values url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func flashValue(t *testing.T, rr *httptest.ResponseRecorder, name string) string {
	t.Helper()
	c := findCookie(rr, name)
	require.NotNil(t, c, "expected %s cookie", name)
	decoded, err := base64.StdEncoding.DecodeString(c.Value)
	require.NoError(t, err)
	return string(decoded)
}

func flashCookie(name, message string) *http.Cookie {
	return &http.Cookie{Name: name, Value: base64.StdEncoding.EncodeToString([]byte(message))}
}

var adminUser = &domain.User{Id: 1, Username: "admin", Admin: true}
