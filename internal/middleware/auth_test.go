package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoplist/internal/identity"
)

func TestAuthenticateStoresIdentity(t *testing.T) {
	app := fiber.New()
	app.Use(Authenticate(identity.NewHeaderResolver("X-Caller")))
	app.Get("/", func(c *fiber.Ctx) error {
		id, ok := c.Locals(LocalIdentity).(identity.Identity)
		if !ok || !id.Authenticated() {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(id.UserID)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Caller", "alice")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}

func TestAuthenticatedIdentityOutlivesRequest(t *testing.T) {
	// A mutable app, so header values share the pooled request buffer
	app := fiber.New()
	app.Use(Authenticate(identity.NewHeaderResolver("X-Caller")))

	var seen []identity.Identity
	app.Get("/", func(c *fiber.Ctx) error {
		seen = append(seen, c.Locals(LocalIdentity).(identity.Identity))
		return c.SendStatus(fiber.StatusNoContent)
	})

	for _, caller := range []string{"alice", "bobby", "carol"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Caller", caller)
		if _, err := app.Test(req); err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
	}

	want := []string{"alice", "bobby", "carol"}
	if len(seen) != len(want) {
		t.Fatalf("Expected %d identities, got %d", len(want), len(seen))
	}
	for i, id := range seen {
		if id.UserID != want[i] {
			t.Errorf("Expected identity %d to stay %s, got %s", i, want[i], id.UserID)
		}
	}
}
