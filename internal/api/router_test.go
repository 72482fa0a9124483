package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmarrero/promptdeck-be/internal/api"
	"github.com/dmarrero/promptdeck-be/internal/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	users := services.NewUserService(bcrypt.MinCost)
	sessions := services.NewSessionService(0)
	projects := services.NewProjectService()
	chat := services.NewChatService(projects)

	srv := httptest.NewServer(api.NewRouter(users, sessions, projects, chat, "http://localhost:3000"))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func registerAndLogin(t *testing.T, srv *httptest.Server, email, password, name string) (string, int64) {
	t.Helper()

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"email": email, "password": password, "name": name,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	userID, ok := body["userId"].(float64)
	require.True(t, ok)
	return token, int64(userID)
}

// The demo walkthrough: register, login, create a project, store a prompt,
// and chat against it.
func TestEndToEndScenario(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"email": "a@b.com", "password": "pw1", "name": "Alice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "a@b.com", body["email"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"email": "a@b.com", "password": "pw1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/projects", token, map[string]string{"name": "P1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "P1", body["name"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/projects/1/prompts", token, map[string]string{"prompt": "Be concise"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, []any{"Be concise"}, body["prompts"])

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/chat?project=1&msg=hi", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	chatResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer chatResp.Body.Close()
	require.Equal(t, http.StatusOK, chatResp.StatusCode)

	reply, err := io.ReadAll(chatResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(reply), "Project: P1")
	assert.Contains(t, string(reply), "Be concise")
	assert.Contains(t, string(reply), "I heard you say 'hi'")
}

func TestRegisterValidationAndConflict(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{"email": "", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"email": "dup@b.com", "password": "pw", "name": "First",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"email": " DUP@B.COM ", "password": "other", "name": "Second",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email already exists", body["error"])
}

func TestLoginFailures(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "a@b.com", "pw1", "Alice")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"email": "a@b.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutIsIdempotent(t *testing.T) {
	srv := newTestServer(t)
	token, _ := registerAndLogin(t, srv, "a@b.com", "pw1", "Alice")

	// Logout with no token at all still succeeds.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])

	for i := 0; i < 2; i++ {
		resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/logout", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "attempt %d", i)
		assert.Equal(t, true, body["ok"])
	}

	// The revoked token no longer grants access.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/projects", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProjectsRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/projects", "bogus-token", map[string]string{"name": "P1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateProjectEmptyName(t *testing.T) {
	srv := newTestServer(t)
	token, _ := registerAndLogin(t, srv, "a@b.com", "pw1", "Alice")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/projects", token, map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddPromptOwnership(t *testing.T) {
	srv := newTestServer(t)
	aliceToken, _ := registerAndLogin(t, srv, "a@b.com", "pw1", "Alice")
	bobToken, _ := registerAndLogin(t, srv, "b@b.com", "pw2", "Bob")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/projects", aliceToken, map[string]string{"name": "Private"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	projectID := int64(body["id"].(float64))

	url := fmt.Sprintf("%s/projects/%d/prompts", srv.URL, projectID)

	resp, _ = doJSON(t, http.MethodPost, url, bobToken, map[string]string{"prompt": "sneaky"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/projects/999/prompts", bobToken, map[string]string{"prompt": "hi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, url, aliceToken, map[string]string{"prompt": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Bob never managed to write anything.
	resp, body = doJSON(t, http.MethodPost, url, aliceToken, map[string]string{"prompt": "legit"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"legit"}, body["prompts"])
}

func TestListProjectsIsScopedToOwner(t *testing.T) {
	srv := newTestServer(t)
	aliceToken, _ := registerAndLogin(t, srv, "a@b.com", "pw1", "Alice")
	bobToken, _ := registerAndLogin(t, srv, "b@b.com", "pw2", "Bob")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/projects", aliceToken, map[string]string{"name": "Alice's"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/projects", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+bobToken)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	assert.Empty(t, list)
}

func TestChatPostPlainText(t *testing.T) {
	srv := newTestServer(t)
	token, _ := registerAndLogin(t, srv, "a@b.com", "pw1", "Alice")

	// Unauthenticated POST gets a plain-text error.
	resp, err := http.Post(srv.URL+"/chat", "text/plain", strings.NewReader("hi"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "error: auth required", string(raw))

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/chat", strings.NewReader("tell me something"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "(no project specified)")
	assert.Contains(t, string(raw), "I heard you say 'tell me something'")
}

func TestChatGetDefaultsMessage(t *testing.T) {
	srv := newTestServer(t)
	token, _ := registerAndLogin(t, srv, "a@b.com", "pw1", "Alice")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/chat", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "I heard you say 'hello'")
}

func TestChatWebSocket(t *testing.T) {
	srv := newTestServer(t)
	token, _ := registerAndLogin(t, srv, "a@b.com", "pw1", "Alice")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/projects", token, map[string]string{"name": "WS Project"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	projectID := int64(body["id"].(float64))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/chat/ws?project=%d", projectID)
	header := http.Header{"Authorization": {"Bearer " + token}}

	conn, wsResp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer wsResp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hi over ws")))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(reply), "Project: WS Project")
	assert.Contains(t, string(reply), "I heard you say 'hi over ws'")

	// No auth, no upgrade.
	_, badResp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/chat/ws", nil)
	require.Error(t, err)
	require.NotNil(t, badResp)
	defer badResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, badResp.StatusCode)
}

func TestHomePage(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "demo@example.com")
}
