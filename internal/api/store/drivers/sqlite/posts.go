package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/soapbox/internal/api/domain"
)

type postsRepo struct {
	db  dbtx
	now func() time.Time
}

// postSelect joins the author and aggregates likes. The single parameter is
// the viewer id used for the liked flag.
const postSelect = `
SELECT p.id, p.user_id, u.username, p.content,
       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
       EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = ?) AS liked,
       p.created_at, p.updated_at
FROM posts p
JOIN users u ON u.id = p.user_id`

func scanPost(row rowScanner) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.Content, &p.LikeCount, &p.Liked, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) (int64, error) {
	now := r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (user_id, content, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		p.UserID, p.Content, now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *postsRepo) GetPost(ctx context.Context, id, viewerID int64) (domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, viewerID, id))
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}

func (r *postsRepo) ListPosts(ctx context.Context, viewerID int64) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, postSelect+` ORDER BY p.created_at DESC, p.id DESC`, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postsRepo) UpdatePost(ctx context.Context, id int64, content string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE posts SET content = ?, updated_at = ? WHERE id = ?`,
		content, r.now().UTC(), id,
	))
}

func (r *postsRepo) DeletePost(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id))
}
