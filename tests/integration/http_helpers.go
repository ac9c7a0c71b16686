package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"campusgate/internal/auth"
	"campusgate/internal/config"
	"campusgate/internal/database"
	"campusgate/internal/handlers"
	middlewareCustom "campusgate/internal/middleware"
	"campusgate/internal/repositories"
	"campusgate/internal/routes"
	"campusgate/internal/services"
	pkghttp "campusgate/pkg/http"
	pkglogger "campusgate/pkg/logger"
)

const (
	testJWTSecret = "test-secret-32-characters-long-for-testing"
	testPassword  = "TestPassword123"
)

// TestServer wraps httptest.Server with the fully wired application stack
// against a real database.
type TestServer struct {
	Server *httptest.Server
	DB     *database.DB
	Config *config.Config
}

// NewTestServer wires repositories, services, handlers and routes exactly
// as main does, minus the background sweeper.
func NewTestServer(db *database.DB, bypassThrottle bool) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port: "0",
			Env:  "test",
		},
		Auth: config.AuthConfig{
			JWTSecret:       testJWTSecret,
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			CleanupInterval: time.Hour,

			RateLimitMaxAttempts: 5,
			RateLimitWindow:      15 * time.Minute,
			RateLimitBypass:      bypassThrottle,

			LoginAttemptRetention:  30 * 24 * time.Hour,
			SecurityEventRetention: 90 * 24 * time.Hour,
			SessionMaxAge:          7 * 24 * time.Hour,
		},
	}

	userRepo := repositories.NewUserRepository(db)
	attemptRepo := repositories.NewLoginAttemptRepository(db)
	revokeRepo := repositories.NewTokenRevocationRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	eventRepo := repositories.NewSecurityEventRepository(db)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	auditLogger := pkglogger.NewAuditLogger(logger)
	throttle := services.NewLoginThrottle(attemptRepo, cfg.Auth, logger)

	authService := services.NewAuthService(
		userRepo, revokeRepo, sessionRepo, eventRepo,
		throttle, tokenManager,
		cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL,
		auditLogger, logger,
	)
	userService := services.NewUserService(userRepo, logger)

	ipConfig := &pkghttp.IPConfig{}

	authHandler := handlers.NewAuthHandler(authService, ipConfig, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewSecurityEventHandler(authService)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(chiMiddleware.Recoverer)

	routes.RegisterRoutes(router, authHandler, userHandler, eventHandler, tokenManager, revokeRepo, sessionRepo)

	return &TestServer{
		Server: httptest.NewServer(router),
		DB:     db,
		Config: cfg,
	}
}

// Close shuts the test server down.
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// Client returns an HTTP client that carries cookies across requests and
// never follows redirects.
func (ts *TestServer) Client() *http.Client {
	jar := newCookieJar()
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func newCookieJar() http.CookieJar {
	jar, _ := cookiejar.New(nil)
	return jar
}

// PostJSON sends a JSON POST with the given client.
func (ts *TestServer) PostJSON(client *http.Client, path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return client.Do(req)
}

// Get sends a GET with the given client.
func (ts *TestServer) Get(client *http.Client, path string) (*http.Response, error) {
	return client.Get(ts.Server.URL + path)
}

// DecodeJSON reads and decodes a JSON response body.
func DecodeJSON(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decoding %q: %w", string(body), err)
	}
	return nil
}
