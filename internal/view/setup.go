package view

import (
	"log"

	"github.com/guildhall/guildhall-backend/internal/db"
	"github.com/guildhall/guildhall-backend/internal/policy"
)

var pol *policy.Engine

const detailedPostViewSQL = `
CREATE OR REPLACE VIEW forum.detailed_post_view AS
SELECT
    p.post_id,
    p.guild_tag,
    g.guild_name,
    p.user_id,
    u.username,
    u.avatar_url,
    p.title,
    p.body,
    p.is_locked,
    p.created_at,
    COALESCE(v.upvotes, 0)       AS upvotes,
    COALESCE(v.downvotes, 0)     AS downvotes,
    COALESCE(c.comment_count, 0) AS comment_count
FROM forum.posts p
JOIN forum.guilds g ON g.guild_tag = p.guild_tag
JOIN forum.users u  ON u.user_id = p.user_id
LEFT JOIN (
    SELECT post_id,
           COUNT(*) FILTER (WHERE is_upvote)     AS upvotes,
           COUNT(*) FILTER (WHERE NOT is_upvote) AS downvotes
    FROM forum.votes
    WHERE post_id IS NOT NULL
    GROUP BY post_id
) v ON v.post_id = p.post_id
LEFT JOIN (
    SELECT post_id, COUNT(*) AS comment_count
    FROM forum.comments
    GROUP BY post_id
) c ON c.post_id = p.post_id
`

// Init recreates the read view; it must run after the table migrations.
func Init() {
	if err := db.DB.Exec(detailedPostViewSQL).Error; err != nil {
		log.Fatal("Failed to create detailed_post_view: ", err)
	}

	pol = policy.NewEngine(policy.NewGormStore(db.DB))
}
