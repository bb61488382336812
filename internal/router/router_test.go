package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moonflix/internal/auth"
	"moonflix/internal/config"
	"moonflix/internal/events"
	"moonflix/internal/handler"
	"moonflix/internal/logger"
	"moonflix/internal/model"
	"moonflix/internal/repository"
	"moonflix/internal/service"
)

const testSecret = "router-test-secret"

type testServer struct {
	e      *echo.Echo
	tokens *auth.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{AllowedOrigins: []string{"http://localhost:8080"}}
	log := logger.Nop()

	users := repository.NewMemoryUserRepository()
	movies := repository.NewMemoryMovieRepository(
		model.Movie{
			ID:       "m-shining",
			Title:    "The Shining",
			Genre:    model.Genre{Name: "Horror", Description: "Meant to frighten."},
			Director: model.Director{Name: "Stanley Kubrick", Bio: "American filmmaker.", BirthYear: 1928},
		},
		model.Movie{
			ID:       "m-gladiator",
			Title:    "Gladiator",
			Genre:    model.Genre{Name: "Action", Description: "Fights and chases."},
			Director: model.Director{Name: "Ridley Scott", BirthYear: 1937},
		},
		model.Movie{
			ID:       "m-acdc",
			Title:    "AC/DC: Live",
			Genre:    model.Genre{Name: "Music"},
			Director: model.Director{Name: "David Mallet"},
		},
		model.Movie{
			ID:       "m-episode",
			Title:    "Episode %42",
			Genre:    model.Genre{Name: "Music"},
			Director: model.Director{Name: "David Mallet"},
		},
	)
	hasher := auth.NewBcryptHasher(4)
	tokens := auth.NewJWTService(testSecret)

	e := echo.New()
	err := Register(e, cfg, log,
		auth.Middleware(tokens, users),
		handler.NewAuthHandler(service.NewAuthService(auth.NewLocalAuthenticator(users, hasher), tokens)),
		handler.NewUserHandler(service.NewUserService(users, hasher, events.NopPublisher{})),
		handler.NewMovieHandler(service.NewMovieService(movies)),
	)
	require.NoError(t, err)
	return &testServer{e: e, tokens: tokens}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signup(t *testing.T, username, email string) {
	t.Helper()
	rec := s.do(http.MethodPost, "/users", "",
		`{"username":"`+username+`","password":"s3cretpass","email":"`+email+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	rec := s.do(http.MethodPost, "/login", "", `{"username":"`+username+`","password":"s3cretpass"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handler.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func decodeUser(t *testing.T, rec *httptest.ResponseRecorder) handler.UserResponse {
	t.Helper()
	var u handler.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	return u
}

func TestSignupNeverReturnsPassword(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/users", "", `{"username":"moviefan1","password":"s3cretpass","email":"fan@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, rec.Body.String(), "s3cretpass")
	assert.Equal(t, "moviefan1", raw["username"])
}

func TestLoginTokenNamesUser(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "moviefan1", "fan@example.com")

	rec := s.do(http.MethodPost, "/login", "", `{"username":"moviefan1","password":"s3cretpass"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var resp handler.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := s.tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "moviefan1", claims.Subject)
	assert.Equal(t, "moviefan1", resp.User.Username)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "moviefan1", "fan@example.com")

	wrongPassword := s.do(http.MethodPost, "/login", "", `{"username":"moviefan1","password":"wrongpass1"}`)
	unknownUser := s.do(http.MethodPost, "/login", "", `{"username":"stranger1","password":"s3cretpass"}`)

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/movies", "/movies/Gladiator", "/users", "/users/moviefan1"} {
		rec := s.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := s.do(http.MethodGet, "/movies", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSelfOnlyRoutes(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "moviefan1", "fan@example.com")
	s.signup(t, "otheruser", "other@example.com")
	token := s.login(t, "moviefan1")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "update", method: http.MethodPut, path: "/users/otheruser", body: `{"username":"otheruser","email":"x@example.com"}`},
		{name: "update with invalid body", method: http.MethodPut, path: "/users/otheruser", body: `{"username":"x"}`},
		{name: "delete", method: http.MethodDelete, path: "/users/otheruser"},
		{name: "add favorite", method: http.MethodPost, path: "/users/otheruser/movies/m-gladiator"},
		{name: "remove favorite", method: http.MethodDelete, path: "/users/otheruser/movies/m-gladiator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, token, tt.body)
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}

	rec := s.do(http.MethodGet, "/users/otheruser", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupConflicts(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "moviefan1", "fan@example.com")

	rec := s.do(http.MethodPost, "/users", "", `{"username":"moviefan1","password":"s3cretpass","email":"new@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "USERNAME_TAKEN")
	assert.Contains(t, rec.Body.String(), "moviefan1")

	rec = s.do(http.MethodPost, "/users", "", `{"username":"moviefan2","password":"s3cretpass","email":"fan@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMAIL_TAKEN")
}

func TestSignupValidationListsEveryField(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/users", "", `{"username":"a b","password":"123","email":"not-an-email","birthday":"yesterday"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Code   string `json:"code"`
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_FAILED", body.Code)

	var fields []string
	for _, e := range body.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"username", "password", "email", "birthday"}, fields)
}

func TestSignupRejectsPasswordBcryptCannotHash(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/users", "",
		`{"username":"moviefan1","password":"`+strings.Repeat("p", 80)+`","email":"fan@example.com"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"field":"password"`)
	assert.Contains(t, rec.Body.String(), "72 bytes")
	assert.NotContains(t, rec.Body.String(), strings.Repeat("p", 80))

	// 72 bytes is the largest password bcrypt accepts.
	rec = s.do(http.MethodPost, "/users", "",
		`{"username":"moviefan2","password":"`+strings.Repeat("p", 72)+`","email":"fan2@example.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestUnmatchedRoutes(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "moviefan1", "fan@example.com")
	token := s.login(t, "moviefan1")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{name: "unknown path with token", method: http.MethodPost, path: "/nope", token: token, wantStatus: http.StatusNotFound},
		{name: "unknown path without token", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
		{name: "unsupported method on own account", method: http.MethodPatch, path: "/users/moviefan1", token: token, wantStatus: http.StatusMethodNotAllowed},
		{name: "unsupported method on movies", method: http.MethodPost, path: "/movies", token: token, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.token, "")
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "FORBIDDEN")
		})
	}
}

func TestFavoriteRoundTrip(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "moviefan1", "fan@example.com")
	token := s.login(t, "moviefan1")

	before := decodeUser(t, s.do(http.MethodGet, "/users/moviefan1", token, ""))

	rec := s.do(http.MethodPost, "/users/moviefan1/movies/m-shining", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"m-shining"}, decodeUser(t, rec).FavoriteMovies)

	rec = s.do(http.MethodDelete, "/users/moviefan1/movies/m-shining", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before.FavoriteMovies, decodeUser(t, rec).FavoriteMovies)
}

func TestUpdateAndDeleteOwnAccount(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "moviefan1", "fan@example.com")
	token := s.login(t, "moviefan1")

	rec := s.do(http.MethodPut, "/users/moviefan1", token, `{"username":"moviefan1","email":"fan2@example.com","birthday":"1990-01-31"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "fan2@example.com", decodeUser(t, rec).Email)

	rec = s.do(http.MethodDelete, "/users/moviefan1", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"moviefan1 was deleted."}`, rec.Body.String())

	// The token's subject no longer resolves.
	rec = s.do(http.MethodGet, "/movies", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMovieRoutes(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "moviefan1", "fan@example.com")
	token := s.login(t, "moviefan1")

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "list", path: "/movies", wantStatus: http.StatusOK, wantBody: "Gladiator"},
		{name: "by title with space", path: "/movies/The%20Shining", wantStatus: http.StatusOK, wantBody: `"title":"The Shining"`},
		{name: "title with escaped slash", path: "/movies/AC%2FDC%3A%20Live", wantStatus: http.StatusOK, wantBody: `"title":"AC/DC: Live"`},
		{name: "title with literal percent", path: "/movies/Episode%20%2542", wantStatus: http.StatusOK, wantBody: `"title":"Episode %42"`},
		{name: "unknown title", path: "/movies/Nope", wantStatus: http.StatusNotFound, wantBody: "MOVIE_NOT_FOUND"},
		{name: "genre", path: "/movies/genre/Horror", wantStatus: http.StatusOK, wantBody: "Meant to frighten."},
		{name: "unknown genre", path: "/movies/genre/Unknown", wantStatus: http.StatusNotFound, wantBody: "GENRE_NOT_FOUND"},
		{name: "director", path: "/movies/directors/Ridley%20Scott", wantStatus: http.StatusOK, wantBody: `"birthYear":1937`},
		{name: "unknown director", path: "/movies/directors/Nobody", wantStatus: http.StatusNotFound, wantBody: "DIRECTOR_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, tt.path, token, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:8080")
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:8080", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(echo.HeaderOrigin, "http://evil.example")
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestStoreTimeoutIsServerError(t *testing.T) {
	cfg := &config.Config{}
	users := repository.NewTimeoutUserRepository(blockingUserRepository{}, 1)
	hasher := auth.NewBcryptHasher(4)
	tokens := auth.NewJWTService(testSecret)

	e := echo.New()
	require.NoError(t, Register(e, cfg, logger.Nop(),
		auth.Middleware(tokens, users),
		handler.NewAuthHandler(service.NewAuthService(auth.NewLocalAuthenticator(users, hasher), tokens)),
		handler.NewUserHandler(service.NewUserService(users, hasher, events.NopPublisher{})),
		handler.NewMovieHandler(service.NewMovieService(repository.NewMemoryMovieRepository())),
	))

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"moviefan1","password":"s3cretpass"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "STORE_UNAVAILABLE")
}

// blockingUserRepository never answers before its context ends.
type blockingUserRepository struct {
	repository.UserRepository
}

func (blockingUserRepository) FindByUsername(ctx context.Context, _ string) (*model.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
