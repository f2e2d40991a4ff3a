package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/soapbox/internal/api/domain"
)

type commentsRepo struct {
	db  dbtx
	now func() time.Time
}

const commentSelect = `
SELECT c.id, c.post_id, c.user_id, u.username, u.profile_pic, c.content, c.created_at, c.updated_at
FROM comments c
JOIN users u ON u.id = c.user_id`

func scanComment(row rowScanner) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Username, &c.ProfilePic, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) (int64, error) {
	now := r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (post_id, user_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.PostID, c.UserID, c.Content, now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *commentsRepo) GetComment(ctx context.Context, postID, id int64) (domain.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = ? AND c.post_id = ?`, id, postID))
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return c, nil
}

func (r *commentsRepo) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		commentSelect+` WHERE c.post_id = ? ORDER BY c.created_at DESC, c.id DESC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *commentsRepo) UpdateComment(ctx context.Context, id int64, content string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		content, r.now().UTC(), id,
	))
}

func (r *commentsRepo) DeleteComment(ctx context.Context, id int64) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id))
}
