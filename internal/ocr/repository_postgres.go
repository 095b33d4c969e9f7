package ocr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/menu"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// Claim next pending image (SKIP LOCKED + lease)
// --------------------------------------------------
func (r *PostgresRepository) ClaimNext(ctx context.Context, lease time.Duration) (*Job, error) {
	var job Job
	err := r.db.QueryRow(ctx, `
		UPDATE menu_images
		SET ocr_lease_until = now() + make_interval(secs => $2),
		    updated_at = now()
		WHERE id = (
			SELECT id
			FROM menu_images
			WHERE status = $1
			  AND (ocr_lease_until IS NULL OR ocr_lease_until < now())
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, restaurant_id, storage_path, mime, ocr_lease_until
	`, menu.StatusOCRPending, lease.Seconds()).Scan(
		&job.ImageID,
		&job.RestaurantID,
		&job.StoragePath,
		&job.Mime,
		&job.LeaseUntil,
	)

	// No pending jobs is not an error
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim ocr job: %w", err)
	}
	return &job, nil
}

// --------------------------------------------------
// ocr_pending -> ocr_done with result, one transaction
// --------------------------------------------------
func (r *PostgresRepository) Complete(ctx context.Context, imageID string, res menu.OCRResult) error {
	if err := menu.CheckTransition(menu.StatusOCRPending, menu.StatusOCRDone); err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE menu_images
		SET status = $3,
		    ocr_error = NULL,
		    ocr_lease_until = NULL,
		    updated_at = now()
		WHERE id = $1
		  AND status = $2
	`, imageID, menu.StatusOCRPending, menu.StatusOCRDone)
	if err != nil {
		return fmt.Errorf("mark ocr done: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("image %s not pending: %w", imageID, menu.ErrInvalidTransition)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO ocr_results (
			image_id,
			text,
			raw_json,
			language,
			engine,
			processing_time_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		imageID,
		res.Text,
		rawOrNil(res.RawJSON),
		res.Language,
		res.Engine,
		res.ProcessingTimeMS,
	)
	if err != nil {
		return fmt.Errorf("insert ocr result: %w", err)
	}

	return tx.Commit(ctx)
}

// --------------------------------------------------
// ocr_pending -> ocr_failed
// --------------------------------------------------
func (r *PostgresRepository) Fail(ctx context.Context, imageID, reason string) error {
	if err := menu.CheckTransition(menu.StatusOCRPending, menu.StatusOCRFailed); err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx, `
		UPDATE menu_images
		SET status = $3,
		    ocr_error = $4,
		    ocr_lease_until = NULL,
		    updated_at = now()
		WHERE id = $1
		  AND status = $2
	`, imageID, menu.StatusOCRPending, menu.StatusOCRFailed, reason)
	if err != nil {
		return fmt.Errorf("mark ocr failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("image %s not pending: %w", imageID, menu.ErrInvalidTransition)
	}
	return nil
}

func rawOrNil(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
