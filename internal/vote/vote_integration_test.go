package vote_test

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
	"github.com/guildhall/guildhall-backend/internal/comment"
	"github.com/guildhall/guildhall-backend/internal/config"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/guild"
	"github.com/guildhall/guildhall-backend/internal/post"
	"github.com/guildhall/guildhall-backend/internal/user"
	"github.com/guildhall/guildhall-backend/internal/vote"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var dbAvailable bool

var testServer *httptest.Server

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env.local")

	if os.Getenv("DATABASE_URL") == "" {
		os.Exit(m.Run())
	}

	config.App.SecureCookies = false
	config.App.LoginRequestsPerMinute = 1000
	config.App.LoginBurst = 1000

	db.Connect()
	dbAvailable = true

	user.Init()
	guild.Init()
	post.Init()
	comment.Init()
	vote.Init()

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Mount("/user", user.SetupRoutes())
	r.Mount("/vote", vote.SetupRoutes())

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

// fixture creates a user, a guild with the user as member, and a post, all
// with cleanup registered. Returns the logged-in client and the post.
func fixture(t *testing.T) (*http.Client, post.Post) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	username := fmt.Sprintf("it%s", strings.ReplaceAll(uuid.New().String()[:8], "-", ""))
	password := "TestPass123!"
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

	tag := fmt.Sprintf("g%s", strings.ReplaceAll(uuid.New().String()[:8], "-", ""))
	g := guild.Guild{GuildTag: tag, GuildName: "Vote Guild"}
	if err := db.DB.Create(&g).Error; err != nil {
		t.Fatalf("failed to create test guild: %v", err)
	}
	if err := db.DB.Create(&guild.GuildMembership{UserID: u.UserID, GuildTag: tag}).Error; err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}

	p := post.Post{GuildTag: tag, UserID: u.UserID, Title: "Vote target", Body: "body"}
	if err := db.DB.Create(&p).Error; err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}

	t.Cleanup(func() {
		db.DB.Where("user_id = ?", u.UserID).Delete(&vote.Vote{})
		db.DB.Where("post_id = ?", p.PostID).Delete(&post.Post{})
		db.DB.Where("guild_tag = ?", tag).Delete(&guild.GuildMembership{})
		db.DB.Where("guild_tag = ?", tag).Delete(&guild.Guild{})
		db.DB.Where("user_id = ?", u.UserID).Delete(&user.Session{})
		db.DB.Where("user_id = ?", u.UserID).Delete(&user.User{})
	})

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	client := &http.Client{Jar: jar}

	loginBody, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := client.Post(testServer.URL+"/user/login", "application/json", bytes.NewReader(loginBody))
	if err != nil {
		t.Fatalf("POST /user/login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("login failed: %d %s", resp.StatusCode, b)
	}

	return client, p
}

func votePost(t *testing.T, client *http.Client, postID int, up bool) (int, string) {
	t.Helper()
	body, _ := json.Marshal(map[string]any{
		"post_id":   postID,
		"is_upvote": up,
	})
	resp, err := client.Post(testServer.URL+"/vote/post", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /vote/post: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(b)
}

// countVotes returns the voter's vote rows for the post and whether the
// remaining vote (if any) is an upvote.
func countVotes(t *testing.T, postID int) (int64, bool) {
	t.Helper()
	var votes []vote.Vote
	if err := db.DB.Where("post_id = ?", postID).Find(&votes).Error; err != nil {
		t.Fatalf("vote query: %v", err)
	}
	if len(votes) == 0 {
		return 0, false
	}
	return int64(len(votes)), votes[0].IsUpvote
}

func TestVoteToggleSemantics(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	client, p := fixture(t)

	// No prior vote: insert.
	status, body := votePost(t, client, p.PostID, true)
	if status != http.StatusOK || !strings.Contains(body, "Vote recorded") {
		t.Fatalf("first vote: got %d %q, want 200 recorded", status, body)
	}
	if n, up := countVotes(t, p.PostID); n != 1 || !up {
		t.Fatalf("after first vote: %d rows, up=%v, want one upvote", n, up)
	}

	// Opposite direction: flip in place.
	status, body = votePost(t, client, p.PostID, false)
	if status != http.StatusOK || !strings.Contains(body, "Vote changed") {
		t.Fatalf("flip vote: got %d %q, want 200 changed", status, body)
	}
	if n, up := countVotes(t, p.PostID); n != 1 || up {
		t.Fatalf("after flip: %d rows, up=%v, want one downvote", n, up)
	}

	// Same direction again: toggle off.
	status, body = votePost(t, client, p.PostID, false)
	if status != http.StatusOK || !strings.Contains(body, "Vote removed") {
		t.Fatalf("toggle off: got %d %q, want 200 removed", status, body)
	}
	if n, _ := countVotes(t, p.PostID); n != 0 {
		t.Fatalf("after toggle off: %d rows, want none", n)
	}
}

func TestVoteOnLockedPostRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	client, p := fixture(t)

	if err := db.DB.Model(&post.Post{}).Where("post_id = ?", p.PostID).
		Update("is_locked", true).Error; err != nil {
		t.Fatalf("failed to lock post: %v", err)
	}

	status, body := votePost(t, client, p.PostID, true)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 voting on locked post, got %d; body: %s", status, body)
	}
	if n, _ := countVotes(t, p.PostID); n != 0 {
		t.Errorf("vote row created despite locked post")
	}
}

func TestVoteOnMissingPostRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	client, _ := fixture(t)

	status, body := votePost(t, client, 0x7ffffff0, true)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 voting on missing post, got %d; body: %s", status, body)
	}
}
