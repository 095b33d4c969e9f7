package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const imageColumns = `
	mi.id,
	mi.restaurant_id,
	mi.storage_path,
	mi.mime,
	mi.uploaded_by,
	mi.is_anonymous,
	mi.anonymous_display_name,
	mi.photo_taken_at,
	mi.created_at,
	mi.status,
	mi.ocr_error,
	mi.updated_at
`

func imageDest(m *MenuImage) []any {
	return []any{
		&m.ID,
		&m.RestaurantID,
		&m.StoragePath,
		&m.Mime,
		&m.UploadedBy,
		&m.IsAnonymous,
		&m.AnonymousDisplayName,
		&m.PhotoTakenAt,
		&m.CreatedAt,
		&m.Status,
		&m.OCRError,
		&m.UpdatedAt,
	}
}

// --------------------------------------------------
// Insert new upload (status = uploaded)
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, img *MenuImage) error {
	img.Status = StatusUploaded

	err := r.db.QueryRow(ctx, `
		INSERT INTO menu_images (
			restaurant_id,
			storage_path,
			mime,
			uploaded_by,
			is_anonymous,
			anonymous_display_name,
			photo_taken_at,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`,
		img.RestaurantID,
		img.StoragePath,
		img.Mime,
		img.UploadedBy,
		img.IsAnonymous,
		img.AnonymousDisplayName,
		img.PhotoTakenAt,
		img.Status,
	).Scan(&img.ID, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert menu image: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*MenuImage, error) {
	var img MenuImage
	err := r.db.QueryRow(ctx, `SELECT `+imageColumns+` FROM menu_images mi WHERE mi.id = $1`, id).
		Scan(imageDest(&img)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get menu image: %w", err)
	}
	return &img, nil
}

// --------------------------------------------------
// Guarded status transition
// --------------------------------------------------
func (r *PostgresRepository) Transition(ctx context.Context, id string, from, to Status) error {
	if err := CheckTransition(from, to); err != nil {
		return err
	}

	cmd, err := r.db.Exec(ctx, `
		UPDATE menu_images
		SET status = $3,
		    updated_at = now()
		WHERE id = $1
		  AND status = $2
	`, id, from, to)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("image %s not in %s: %w", id, from, ErrInvalidTransition)
	}
	return nil
}

// --------------------------------------------------
// Freshness query
// --------------------------------------------------
func (r *PostgresRepository) ListFresh(ctx context.Context, restaurantID string, limit int) ([]FreshMenu, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+imageColumns+`,
			o.id,
			o.text,
			o.raw_json,
			o.language,
			o.engine,
			o.processing_time_ms,
			o.created_at,
			p.display_name,
			p.avatar_url
		FROM menu_images mi
		LEFT JOIN ocr_results o ON o.image_id = mi.id
		LEFT JOIN user_profiles p ON p.id = mi.uploaded_by
		WHERE mi.restaurant_id = $1
		  AND mi.status = $2
		ORDER BY mi.photo_taken_at DESC NULLS LAST, mi.created_at DESC
		LIMIT $3
	`, restaurantID, StatusOCRDone, limit)
	if err != nil {
		return nil, fmt.Errorf("query fresh menus: %w", err)
	}
	defer rows.Close()

	var out []FreshMenu
	for rows.Next() {
		var (
			f           FreshMenu
			ocrID       *string
			ocrText     *string
			ocrRaw      []byte
			ocrLang     *string
			ocrEngine   *string
			ocrMS       *int
			ocrCreated  *time.Time
			uploaderNm  *string
			uploaderAvt *string
		)

		dest := append(imageDest(&f.Image),
			&ocrID,
			&ocrText,
			&ocrRaw,
			&ocrLang,
			&ocrEngine,
			&ocrMS,
			&ocrCreated,
			&uploaderNm,
			&uploaderAvt,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan fresh menu: %w", err)
		}

		if ocrID != nil {
			f.OCR = &OCRResult{
				ID:        *ocrID,
				ImageID:   f.Image.ID,
				Text:      deref(ocrText),
				RawJSON:   ocrRaw,
				Language:  deref(ocrLang),
				Engine:    deref(ocrEngine),
				CreatedAt: derefTime(ocrCreated),
			}
			if ocrMS != nil {
				f.OCR.ProcessingTimeMS = *ocrMS
			}
		}
		if uploaderNm != nil {
			f.Uploader = &Uploader{DisplayName: *uploaderNm, AvatarURL: uploaderAvt}
		}

		out = append(out, f)
	}
	return out, rows.Err()
}

// --------------------------------------------------
// Admin delete (ocr_results cascade)
// --------------------------------------------------
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM menu_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu image: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
