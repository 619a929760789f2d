package user_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/guildhall/guildhall-backend/internal/config"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/user"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		// No database available; every test skips itself.
		os.Exit(m.Run())
	}

	// httptest serves plain HTTP, so cookies must not be Secure.
	config.App.SecureCookies = false
	// The login limiter would trip across tests sharing 127.0.0.1.
	config.App.LoginRequestsPerMinute = 1000
	config.App.LoginBurst = 1000

	db.Connect()
	dbAvailable = true

	user.Init()

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Mount("/user", user.SetupRoutes())

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

// createTestUser inserts a unique user and registers cleanup. Returns the
// username and plaintext password.
func createTestUser(t *testing.T) (username, password string) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	username = fmt.Sprintf("it%s", strings.ReplaceAll(uuid.New().String()[:8], "-", ""))
	password = "TestPass123!"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	u := user.User{
		Email:        username + "@test.example",
		Username:     username,
		PasswordHash: string(hashed),
	}
	if err := db.DB.Create(&u).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	t.Cleanup(func() {
		db.DB.Where("user_id = ?", u.UserID).Delete(&user.Session{})
		db.DB.Where("user_id = ?", u.UserID).Delete(&user.Block{})
		db.DB.Where("user_id = ?", u.UserID).Delete(&user.User{})
	})

	return username, password
}

func newClientWithJar(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar}
}

func loginUser(t *testing.T, client *http.Client, username, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := client.Post(testServer.URL+"/user/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /user/login: %v", err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestLoginReturnsSessionCookie(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestUser(t)
	client := newClientWithJar(t)

	resp := loginUser(t, client, username, password)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", resp.StatusCode, body)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, "session_id") {
		t.Errorf("expected Set-Cookie to contain 'session_id', got: %q", setCookie)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("invalid JSON body: %s", body)
	}
	if result["session_id"] == "" {
		t.Error("expected session_id in response body")
	}
}

func TestLoginNormalizesUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestUser(t)
	client := newClientWithJar(t)

	resp := loginUser(t, client, strings.ToUpper(username), password)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 logging in with uppercased name, got %d; body: %s", resp.StatusCode, body)
	}
}

func TestSessionPersistsAcrossRequests(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestUser(t)
	client := newClientWithJar(t)

	loginResp := loginUser(t, client, username, password)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	meResp, err := client.Get(testServer.URL + "/user/me")
	if err != nil {
		t.Fatalf("GET /user/me: %v", err)
	}
	meBody := readBody(t, meResp)

	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /user/me, got %d; body: %s", meResp.StatusCode, meBody)
	}

	var me map[string]any
	if err := json.Unmarshal([]byte(meBody), &me); err != nil {
		t.Fatalf("invalid JSON body: %s", meBody)
	}
	if me["username"] != username {
		t.Errorf("expected username %q from /user/me, got %v", username, me["username"])
	}
	if _, leaked := me["email"]; leaked {
		t.Error("/user/me must not expose the email address")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestUser(t)
	client := newClientWithJar(t)

	loginResp := loginUser(t, client, username, password)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	logoutResp, err := client.Post(testServer.URL+"/user/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /user/logout: %v", err)
	}
	logoutBody := readBody(t, logoutResp)
	if logoutResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /user/logout, got %d; body: %s", logoutResp.StatusCode, logoutBody)
	}

	meResp, err := client.Get(testServer.URL + "/user/me")
	if err != nil {
		t.Fatalf("GET /user/me after logout: %v", err)
	}
	meBody := readBody(t, meResp)

	if meResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 from /user/me after logout, got %d; body: %s", meResp.StatusCode, meBody)
	}
}

// Replaying the session cookie after logout is a no-op: the stale-cookie
// branch still answers 200 and clears the cookie again.
func TestLogoutTwiceWithSameCookie(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestUser(t)
	client := newClientWithJar(t)

	loginResp := loginUser(t, client, username, password)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(loginBody), &result); err != nil {
		t.Fatalf("invalid login response JSON: %s", loginBody)
	}
	sessionID, _ := result["session_id"].(string)
	if sessionID == "" {
		t.Fatal("login response missing session_id")
	}

	logoutResp, err := client.Post(testServer.URL+"/user/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /user/logout: %v", err)
	}
	readBody(t, logoutResp)
	if logoutResp.StatusCode != http.StatusOK {
		t.Fatalf("first logout: expected 200, got %d", logoutResp.StatusCode)
	}

	// Second logout with the captured cookie, outside the jar.
	req, err := http.NewRequest(http.MethodPost, testServer.URL+"/user/logout", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	replayResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /user/logout (replay): %v", err)
	}
	replayBody := readBody(t, replayResp)

	if replayResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 replaying logout, got %d; body: %s", replayResp.StatusCode, replayBody)
	}
	if !strings.Contains(replayBody, "Logged out of expired session") {
		t.Errorf("expected expired-session message, got: %q", replayBody)
	}
}

func TestBannedUserCannotLogIn(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestUser(t)

	if err := db.DB.Model(&user.User{}).Where("username = ?", username).
		Update("is_banned", true).Error; err != nil {
		t.Fatalf("failed to ban test user: %v", err)
	}

	client := newClientWithJar(t)
	resp := loginUser(t, client, username, password)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for banned user, got %d; body: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "You are banned.") {
		t.Errorf("expected ban message, got: %q", body)
	}
}

func TestBlockAndUnblock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestUser(t)
	other, _ := createTestUser(t)
	client := newClientWithJar(t)

	loginResp := loginUser(t, client, username, password)
	readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", loginResp.StatusCode)
	}

	blockResp, err := client.Post(testServer.URL+"/user/block/"+other, "application/json", nil)
	if err != nil {
		t.Fatalf("POST /user/block: %v", err)
	}
	blockBody := readBody(t, blockResp)
	if blockResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from block, got %d; body: %s", blockResp.StatusCode, blockBody)
	}

	// Blocking twice is rejected.
	againResp, err := client.Post(testServer.URL+"/user/block/"+other, "application/json", nil)
	if err != nil {
		t.Fatalf("POST /user/block (again): %v", err)
	}
	readBody(t, againResp)
	if againResp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 blocking twice, got %d", againResp.StatusCode)
	}

	unblockResp, err := client.Post(testServer.URL+"/user/unblock/"+other, "application/json", nil)
	if err != nil {
		t.Fatalf("POST /user/unblock: %v", err)
	}
	unblockBody := readBody(t, unblockResp)
	if unblockResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from unblock, got %d; body: %s", unblockResp.StatusCode, unblockBody)
	}
}
