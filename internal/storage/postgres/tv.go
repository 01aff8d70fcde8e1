package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"site_ingest/internal/domain"
)

type TVEpisodeStore struct {
	db *sqlx.DB
}

func NewTVEpisodeStore(db *sqlx.DB) *TVEpisodeStore {
	return &TVEpisodeStore{db: db}
}

func (s *TVEpisodeStore) Upsert(ctx context.Context, siteID uuid.UUID, ep *domain.TVEpisode) (uuid.UUID, bool, error) {
	query := `
		INSERT INTO tv_episodes (
			episode_id, site_id, show_name, season_number, episode_number,
			episode_title, air_date, synopsis, channel, viewers, imdb_rating, imdb_quantity
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (` + conflictTarget("tv_episodes") + `) DO UPDATE SET
			episode_title = EXCLUDED.episode_title,
			air_date = EXCLUDED.air_date,
			synopsis = EXCLUDED.synopsis,
			channel = EXCLUDED.channel,
			viewers = EXCLUDED.viewers,
			imdb_rating = EXCLUDED.imdb_rating,
			imdb_quantity = EXCLUDED.imdb_quantity
		RETURNING episode_id, (xmax = 0) AS was_inserted`

	var id uuid.UUID
	var inserted bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		uuid.New(),
		siteID,
		ep.ShowName,
		ep.SeasonNumber,
		ep.EpisodeNumber,
		ep.EpisodeTitle,
		ep.AirDate,
		ep.Synopsis,
		ep.Channel,
		ep.Viewers,
		ep.IMDBRating,
		ep.IMDBQuantity,
	).Scan(&id, &inserted)
	if err != nil {
		return uuid.Nil, false, wrapErr("upsert tv episode", err)
	}

	return id, inserted, nil
}
