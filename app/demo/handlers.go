package demo

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/flare/core/handler"
	"github.com/dmitrymomot/flare/core/health"
	"github.com/dmitrymomot/flare/core/logger"
	"github.com/dmitrymomot/flare/core/reqctx"
	"github.com/dmitrymomot/flare/core/response"
)

// statusError is an error carrying the HTTP status to respond with.
type statusError struct {
	status int
	msg    string
}

func (e statusError) Error() string   { return e.msg }
func (e statusError) StatusCode() int { return e.status }

var (
	errUserNotFound  = statusError{status: http.StatusNotFound, msg: "user not found"}
	errInvalidUser   = statusError{status: http.StatusBadRequest, msg: "invalid user payload"}
	errUnknownFormat = statusError{status: http.StatusBadRequest, msg: "unknown format"}
	errStoreClosed   = errors.New("user store is closed")
)

type user struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type userStore struct {
	mu    sync.RWMutex
	users map[string]user
}

func newUserStore() *userStore {
	return &userStore{users: make(map[string]user)}
}

func (s *userStore) get(id string) (user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *userStore) ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.users == nil {
		return errStoreClosed
	}
	return nil
}

func (s *userStore) list() []user {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]user, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b user) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

func (s *userStore) add(u user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (app *App) routes() *http.ServeMux {
	opts := app.handlerOptions()
	h := func(fn handler.HandlerFunc) http.Handler {
		return handler.New(fn, opts...)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", h(app.home))
	mux.Handle("GET /health", h(healthStatus))
	mux.Handle("GET /health/live", h(health.Liveness))
	mux.Handle("GET /health/ready", h(health.Readiness(app.logger, app.users.ping)))
	mux.Handle("GET /ping", h(health.NoContent))
	mux.Handle("GET /hello/{name}", h(hello))
	mux.Handle("GET /env/{key}", h(envVar))
	mux.Handle("GET /users", h(app.listUsers))
	mux.Handle("GET /users/export", h(app.exportUsers))
	mux.Handle("GET /users/{id}", h(app.getUser))
	mux.Handle("POST /users", h(app.createUser))
	mux.Handle("GET /docs", h(docs))
	mux.Handle("/", h(func(c *reqctx.Context) (*response.Response, error) {
		return c.NotFound()
	}))
	return mux
}

func (app *App) home(c *reqctx.Context) (*response.Response, error) {
	resp, err := c.Render("home", homeData{AppName: app.config.AppName})
	return response.WithCache(resp, 5*time.Minute), err
}

func healthStatus(c *reqctx.Context) (*response.Response, error) {
	resp, err := c.JSON(map[string]string{"status": "ok"})
	return response.WithCache(resp, 0), err
}

func hello(c *reqctx.Context) (*response.Response, error) {
	name := c.Param("name")
	resp, err := c.Text("Hello, " + name + "!")
	return response.WithCookie(resp, &http.Cookie{
		Name:     "greeted",
		Value:    url.QueryEscape(name),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}), err
}

func envVar(c *reqctx.Context) (*response.Response, error) {
	v := c.Env().Get(c.Param("key"))
	if v == "" {
		return c.NotFound()
	}
	return c.Text(v)
}

func docs(c *reqctx.Context) (*response.Response, error) {
	return c.Redirect("/", http.StatusMovedPermanently)
}

// listUsers picks the terminal method from the format query parameter.
func (app *App) listUsers(c *reqctx.Context) (*response.Response, error) {
	users := app.users.list()

	switch c.Request().URL.Query().Get("format") {
	case "", "json":
		return c.Respond(reqctx.KindJSON, users)
	case "text":
		var b strings.Builder
		for _, u := range users {
			fmt.Fprintf(&b, "%s\t%s\t%s\n", u.ID, u.Name, u.Email)
		}
		return c.Respond(reqctx.KindText, b.String())
	}
	return nil, errUnknownFormat
}

// exportUsers streams the users as CSV.
func (app *App) exportUsers(c *reqctx.Context) (*response.Response, error) {
	users := app.users.list()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "name", "email", "created_at"})
	for _, u := range users {
		_ = w.Write([]string{u.ID, u.Name, u.Email, u.CreatedAt.Format(time.RFC3339)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	resp, err := c.Body(response.StreamBody(&buf), reqctx.WithHeader("Content-Type", "text/csv; charset=UTF-8"))
	return response.WithHeaders(resp, map[string]string{
		"Content-Disposition": `attachment; filename="users.csv"`,
		"X-Total-Count":       strconv.Itoa(len(users)),
	}), err
}

func (app *App) getUser(c *reqctx.Context) (*response.Response, error) {
	u, ok := app.users.get(c.Param("id"))
	if !ok {
		return nil, errUserNotFound
	}
	return c.JSON(u)
}

func (app *App) createUser(c *reqctx.Context) (*response.Response, error) {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil {
		return nil, errInvalidUser
	}
	if strings.TrimSpace(in.Name) == "" || !strings.Contains(in.Email, "@") {
		return nil, errInvalidUser
	}

	u := user{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: time.Now().UTC(),
	}
	app.users.add(u)

	if ev := c.Event(); ev != nil {
		log := c.Logger()
		_ = ev.WaitUntil(func(ctx context.Context) error {
			log.InfoContext(ctx, "user created", logger.ID("user_id", u.ID))
			return nil
		})
	}

	c.SetStatus(http.StatusCreated)
	c.SetHeader("Location", fmt.Sprintf("/users/%s", u.ID))
	return c.JSON(u)
}

func notFound(c *reqctx.Context) (*response.Response, error) {
	return c.JSON(map[string]string{
		"error": "not_found",
		"path":  c.Request().URL.Path,
	}, reqctx.WithStatus(http.StatusNotFound))
}
