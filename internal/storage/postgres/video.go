package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"site_ingest/internal/domain"
)

type VideoAssetStore struct {
	db *sqlx.DB
}

func NewVideoAssetStore(db *sqlx.DB) *VideoAssetStore {
	return &VideoAssetStore{db: db}
}

// Upsert writes one video row. The URL is a global natural key, so a
// video resubmitted under a different site moves to that site.
func (s *VideoAssetStore) Upsert(ctx context.Context, siteID uuid.UUID, v *domain.VideoAsset) (uuid.UUID, bool, error) {
	query := `
		INSERT INTO video_assets (
			video_id, site_id, url, title, channel_name, upload_date, view_count,
			like_count, comment_count, description_text, duration, category, channel_subscribers
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (` + conflictTarget("video_assets") + `) DO UPDATE SET
			site_id = EXCLUDED.site_id,
			title = EXCLUDED.title,
			channel_name = EXCLUDED.channel_name,
			upload_date = EXCLUDED.upload_date,
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count,
			description_text = EXCLUDED.description_text,
			duration = EXCLUDED.duration,
			category = EXCLUDED.category,
			channel_subscribers = EXCLUDED.channel_subscribers
		RETURNING video_id, (xmax = 0) AS was_inserted`

	var id uuid.UUID
	var inserted bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		uuid.New(),
		siteID,
		v.URL,
		v.Title,
		v.ChannelName,
		v.UploadDate,
		v.ViewCount,
		v.LikeCount,
		v.CommentCount,
		v.DescriptionText,
		v.Duration,
		v.Category,
		v.ChannelSubscribers,
	).Scan(&id, &inserted)
	if err != nil {
		return uuid.Nil, false, wrapErr("upsert video asset", err)
	}

	return id, inserted, nil
}
