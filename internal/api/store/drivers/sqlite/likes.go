package sqlite

import (
	"context"
	"time"
)

type likesRepo struct {
	db  dbtx
	now func() time.Time
}

// ToggleLike should run inside a transaction so the count it returns
// matches the state it just wrote.
func (r *likesRepo) ToggleLike(ctx context.Context, userID, postID int64) (bool, int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		return false, 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, err
	}

	liked := removed == 0
	if liked {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?)`,
			userID, postID, r.now().UTC(),
		)
		if err != nil {
			return false, 0, mapConstraint(err)
		}
	}

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID).Scan(&count); err != nil {
		return false, 0, err
	}
	return liked, count, nil
}
