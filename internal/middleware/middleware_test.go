package middleware

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/gofiber/fiber/v3"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*models.Claims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &models.Claims{UserID: "u1", Nickname: "alice"}, nil
}

func TestRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger())
	app.Get("/me", func(c fiber.Ctx) error {
		return c.SendString(UserID(c) + ":" + fiber.Locals[string](c, NicknameKey))
	}, RequireAuth(stubVerifier{}))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", fiber.StatusUnauthorized, ""},
		{"not bearer", "Basic good", fiber.StatusUnauthorized, ""},
		{"invalid token", "Bearer nope", fiber.StatusUnauthorized, ""},
		{"valid token", "Bearer good", fiber.StatusOK, "u1:alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.body != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.body {
					t.Errorf("body = %q, want %q", body, tt.body)
				}
			}
		})
	}
}

func TestUserIDOnPublicRoute(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("[" + UserID(c) + "]")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "[]" {
		t.Errorf("expected empty user id, got %s", body)
	}
}
