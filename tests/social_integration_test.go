package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// End-to-end tests against a running server. Skipped unless
// SOCIAL_E2E_URL points at a live instance with empty state, e.g.
//
//	SOCIAL_E2E_URL=http://localhost:8080 go test ./tests/
type apiClient struct {
	client  *http.Client
	baseURL string
	token   string
}

func newClient(t *testing.T) *apiClient {
	baseURL := os.Getenv("SOCIAL_E2E_URL")
	if baseURL == "" {
		t.Skip("SOCIAL_E2E_URL not set, skipping end-to-end test")
	}
	return &apiClient{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

func (c *apiClient) do(t *testing.T, method, path string, payload interface{}, out interface{}) int {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	Profile     struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"profile"`
}

func register(t *testing.T, c *apiClient, username string) authResponse {
	t.Helper()

	var auth authResponse
	status := c.do(t, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"password": "password123",
	}, &auth)
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", username, status)
	}
	return auth
}

func TestE2E_HealthCheck(t *testing.T) {
	c := newClient(t)

	var health map[string]string
	if status := c.do(t, http.MethodGet, "/health", nil, &health); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if health["status"] != "ok" {
		t.Errorf("expected status ok, got %q", health["status"])
	}
}

func TestE2E_SocialFlow(t *testing.T) {
	c := newClient(t)

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	alice := register(t, c, "alice_"+suffix)
	bob := register(t, c, "bob_"+suffix)

	// Bob follows alice
	c.token = bob.AccessToken
	if status := c.do(t, http.MethodPost, "/users/"+alice.Profile.ID+"/follow", nil, nil); status != http.StatusNoContent {
		t.Fatalf("follow: expected 204, got %d", status)
	}

	// Alice posts
	c.token = alice.AccessToken
	var post struct {
		ID uint64 `json:"id"`
	}
	if status := c.do(t, http.MethodPost, "/posts", map[string]string{"content": "hello from e2e"}, &post); status != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d", status)
	}

	// Bob's feed includes alice's post
	c.token = bob.AccessToken
	var feed []struct {
		ID uint64 `json:"id"`
	}
	if status := c.do(t, http.MethodGet, "/feed", nil, &feed); status != http.StatusOK {
		t.Fatalf("feed: expected 200, got %d", status)
	}
	found := false
	for _, p := range feed {
		if p.ID == post.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("expected post %d in bob's feed", post.ID)
	}

	// Bob can DM alice after following, and alice can reply
	if status := c.do(t, http.MethodPost, "/messages/"+alice.Profile.ID, map[string]string{"content": "saw your post"}, nil); status != http.StatusCreated {
		t.Fatalf("dm: expected 201, got %d", status)
	}
	c.token = alice.AccessToken
	if status := c.do(t, http.MethodPost, "/messages/"+bob.Profile.ID, map[string]string{"content": "thanks"}, nil); status != http.StatusCreated {
		t.Fatalf("reply: expected 201, got %d", status)
	}

	// Alice has a follow, and a message notification
	var notifPage struct {
		UnreadCount int `json:"unread_count"`
	}
	if status := c.do(t, http.MethodGet, "/notifications", nil, &notifPage); status != http.StatusOK {
		t.Fatalf("notifications: expected 200, got %d", status)
	}
	if notifPage.UnreadCount < 2 {
		t.Errorf("expected at least 2 unread notifications, got %d", notifPage.UnreadCount)
	}
}
