package view

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/guildhall/guildhall-backend/internal/config"
	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/guild"
	"github.com/guildhall/guildhall-backend/internal/policy"
	"github.com/guildhall/guildhall-backend/internal/user"
	"github.com/guildhall/guildhall-backend/internal/utils"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// blockedSet returns the usernames the viewer has blocked; empty for
// anonymous viewers.
func blockedSet(account *policy.Account) map[string]bool {
	blocked := map[string]bool{}
	if account == nil {
		return blocked
	}
	rows, err := user.FindBlocks(account.UserID)
	if err != nil {
		log.Println("view: block lookup failed:", err)
		return blocked
	}
	for _, b := range rows {
		blocked[b.BlockedUserUsername] = true
	}
	return blocked
}

// postVotes returns the viewer's vote per post ID for the given page.
func postVotes(account *policy.Account, postIDs []int) map[int]bool {
	votes := map[int]bool{}
	if account == nil || len(postIDs) == 0 {
		return votes
	}
	var rows []viewerVoteRow
	err := db.DB.Where("user_id = ? AND post_id IN ?", account.UserID, postIDs).Find(&rows).Error
	if err != nil {
		log.Println("view: vote lookup failed:", err)
		return votes
	}
	for _, v := range rows {
		if v.PostID != nil {
			votes[*v.PostID] = v.IsUpvote
		}
	}
	return votes
}

func commentVotes(account *policy.Account, commentIDs []int) map[int]bool {
	votes := map[int]bool{}
	if account == nil || len(commentIDs) == 0 {
		return votes
	}
	var rows []viewerVoteRow
	err := db.DB.Where("user_id = ? AND comment_id IN ?", account.UserID, commentIDs).Find(&rows).Error
	if err != nil {
		log.Println("view: vote lookup failed:", err)
		return votes
	}
	for _, v := range rows {
		if v.CommentID != nil {
			votes[*v.CommentID] = v.IsUpvote
		}
	}
	return votes
}

func annotatePosts(account *policy.Account, posts []DetailedPostView) {
	ids := make([]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].PostID
	}
	votes := postVotes(account, ids)
	blocked := blockedSet(account)
	for i := range posts {
		if up, ok := votes[posts[i].PostID]; ok {
			v := up
			posts[i].ViewerVote = &v
		}
		posts[i].AuthorBlocked = blocked[posts[i].Username]
	}
}

func GuildsHandler(w http.ResponseWriter, r *http.Request) {
	var guilds []guild.Guild
	if err := db.DB.Where("is_banned = false").Order("guild_tag").Find(&guilds).Error; err != nil {
		log.Println("view guilds: query failed:", err)
		http.Error(w, "Error loading guilds", http.StatusInternalServerError)
		return
	}
	writeJSON(w, guilds)
}

func GuildHandler(w http.ResponseWriter, r *http.Request) {
	tag := utils.NormalizeHandle(chi.URLParam(r, "guildTag"))

	g, err := guild.FindByTag(tag)
	if err != nil {
		log.Println("view guild: lookup failed:", err)
		http.Error(w, "Error loading guild", http.StatusInternalServerError)
		return
	}
	if g == nil {
		http.Error(w, "Guild not found", http.StatusNotFound)
		return
	}

	var memberCount int64
	err = db.DB.Model(&guild.GuildMembership{}).
		Where("guild_tag = ? AND is_banned = false", tag).Count(&memberCount).Error
	if err != nil {
		log.Println("view guild: member count failed:", err)
		http.Error(w, "Error loading guild", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"guild":        g,
		"member_count": memberCount,
	})
}

func GuildPostsHandler(w http.ResponseWriter, r *http.Request) {
	tag := utils.NormalizeHandle(chi.URLParam(r, "guildTag"))

	g, err := guild.FindByTag(tag)
	if err != nil {
		log.Println("view guild posts: guild lookup failed:", err)
		http.Error(w, "Error loading posts", http.StatusInternalServerError)
		return
	}
	if g == nil {
		http.Error(w, "Guild not found", http.StatusNotFound)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage := config.App.ResultsPerPage

	var posts []DetailedPostView
	err = db.DB.Where("guild_tag = ?", tag).
		Order("created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&posts).Error
	if err != nil {
		log.Println("view guild posts: query failed:", err)
		http.Error(w, "Error loading posts", http.StatusInternalServerError)
		return
	}

	annotatePosts(pol.Resolve(w, r), posts)
	writeJSON(w, posts)
}

func PostHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(chi.URLParam(r, "postID"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var posts []DetailedPostView
	if err := db.DB.Where("post_id = ?", postID).Limit(1).Find(&posts).Error; err != nil {
		log.Println("view post: query failed:", err)
		http.Error(w, "Error loading post", http.StatusInternalServerError)
		return
	}
	if len(posts) == 0 {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	annotatePosts(pol.Resolve(w, r), posts)
	writeJSON(w, posts[0])
}

const commentViewSQL = `
SELECT
    c.comment_id,
    c.post_id,
    c.parent_comment_id,
    c.user_id,
    u.username,
    u.avatar_url,
    c.body,
    c.created_at,
    COALESCE(v.upvotes, 0)   AS upvotes,
    COALESCE(v.downvotes, 0) AS downvotes
FROM forum.comments c
JOIN forum.users u ON u.user_id = c.user_id
LEFT JOIN (
    SELECT comment_id,
           COUNT(*) FILTER (WHERE is_upvote)     AS upvotes,
           COUNT(*) FILTER (WHERE NOT is_upvote) AS downvotes
    FROM forum.votes
    WHERE comment_id IS NOT NULL
    GROUP BY comment_id
) v ON v.comment_id = c.comment_id
WHERE c.post_id = ?
ORDER BY c.created_at
`

func PostCommentsHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(chi.URLParam(r, "postID"))
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var comments []CommentView
	if err := db.DB.Raw(commentViewSQL, postID).Scan(&comments).Error; err != nil {
		log.Println("view comments: query failed:", err)
		http.Error(w, "Error loading comments", http.StatusInternalServerError)
		return
	}

	account := pol.Resolve(w, r)
	ids := make([]int, len(comments))
	for i := range comments {
		ids[i] = comments[i].CommentID
	}
	votes := commentVotes(account, ids)
	blocked := blockedSet(account)
	for i := range comments {
		if up, ok := votes[comments[i].CommentID]; ok {
			v := up
			comments[i].ViewerVote = &v
		}
		comments[i].AuthorBlocked = blocked[comments[i].Username]
	}

	writeJSON(w, comments)
}

func UserHandler(w http.ResponseWriter, r *http.Request) {
	username := utils.NormalizeHandle(chi.URLParam(r, "username"))

	u, err := user.FindByUsername(username)
	if err != nil {
		log.Println("view user: lookup failed:", err)
		http.Error(w, "Error loading user", http.StatusInternalServerError)
		return
	}
	if u == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	writeJSON(w, u.SafeView())
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	res := pol.User(w, r)
	account, ok := res.Granted()
	if !ok {
		res.Deny(w)
		return
	}

	u, err := user.FindByUsername(account.Username)
	if err != nil || u == nil {
		log.Println("view me: lookup failed:", err)
		http.Error(w, "Error loading account", http.StatusInternalServerError)
		return
	}

	writeJSON(w, u.SafeView())
}

// PersonalHandler returns the account's own private details; only the
// named user themselves can read it.
func PersonalHandler(w http.ResponseWriter, r *http.Request) {
	username := utils.NormalizeHandle(chi.URLParam(r, "username"))

	res := pol.Self(w, r, username)
	account, ok := res.Granted()
	if !ok {
		res.Deny(w)
		return
	}

	u, err := user.FindByUsername(account.Username)
	if err != nil || u == nil {
		log.Println("view personal: lookup failed:", err)
		http.Error(w, "Error loading account", http.StatusInternalServerError)
		return
	}

	blocks, err := user.FindBlocks(u.UserID)
	if err != nil {
		log.Println("view personal: block lookup failed:", err)
		http.Error(w, "Error loading account", http.StatusInternalServerError)
		return
	}

	blockedUsernames := make([]string, 0, len(blocks))
	for _, b := range blocks {
		blockedUsernames = append(blockedUsernames, b.BlockedUserUsername)
	}

	writeJSON(w, map[string]any{
		"user_id":       u.UserID,
		"email":         u.Email,
		"username":      u.Username,
		"avatar_url":    u.AvatarURL,
		"is_admin":      u.IsAdmin,
		"is_verified":   u.IsVerified,
		"is_banned":     u.IsBanned,
		"created_at":    u.CreatedAt,
		"blocked_users": blockedUsernames,
	})
}
