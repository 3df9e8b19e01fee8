package archive

import (
	"context"
	"errors"
	"fmt"

	"backend-stridelog/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const schema = `
	CREATE TABLE IF NOT EXISTS analysis_reports (
		id             TEXT PRIMARY KEY,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		axis           TEXT NOT NULL,
		peak_steps     INTEGER NOT NULL,
		spectral_steps INTEGER NOT NULL,
		dominant_freq  DOUBLE PRECISION NOT NULL,
		avg_speed      DOUBLE PRECISION NOT NULL,
		distance_m     DOUBLE PRECISION NOT NULL,
		step_length_m  DOUBLE PRECISION NOT NULL,
		stage_errors   JSONB,
		map_geojson    JSONB
	)`

const uniqueViolation = "23505"

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// EnsureSchema creates the reports table if it does not exist.
func (s *Service) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create analysis_reports: %w", err)
	}
	return nil
}

func (s *Service) Save(ctx context.Context, rec Record) (Record, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO analysis_reports (id, axis, peak_steps, spectral_steps, dominant_freq, avg_speed, distance_m, step_length_m, stage_errors, map_geojson)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at
	`, rec.ID, rec.Axis, rec.PeakSteps, rec.SpectralSteps, rec.DominantFreq, rec.AvgSpeed, rec.Distance, rec.StepLength, jsonArg(rec.StageErrors), jsonArg(rec.MapGeoJSON))
	if err := row.Scan(&rec.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Record{}, ErrDuplicateKey
		}
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, created_at, axis, peak_steps, spectral_steps, dominant_freq, avg_speed, distance_m, step_length_m, stage_errors, map_geojson
		FROM analysis_reports WHERE id=$1
	`, id)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.Axis, &rec.PeakSteps, &rec.SpectralSteps, &rec.DominantFreq, &rec.AvgSpeed, &rec.Distance, &rec.StepLength, &rec.StageErrors, &rec.MapGeoJSON); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// List returns the newest reports first, without their maps.
func (s *Service) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, created_at, axis, peak_steps, spectral_steps, dominant_freq, avg_speed, distance_m, step_length_m, stage_errors
		FROM analysis_reports
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Axis, &rec.PeakSteps, &rec.SpectralSteps, &rec.DominantFreq, &rec.AvgSpeed, &rec.Distance, &rec.StepLength, &rec.StageErrors); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM analysis_reports WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// jsonArg sends empty documents as NULL.
func jsonArg(doc []byte) any {
	if len(doc) == 0 {
		return nil
	}
	return string(doc)
}
