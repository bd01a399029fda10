package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mealmates-backend/internal/domains/donation/model"
	"mealmates-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const donationColumns = `
	id, owner_id, title, description, image_ref, quantity, expiry_at,
	status, claimant_id, claimed_at, created_at, updated_at, deleted_at`

// postgresRepository - Raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{
		pool: pool,
	}
}

// Create - Insert new donation
func (r *postgresRepository) Create(ctx context.Context, donation *model.Donation) error {
	query := `
		INSERT INTO donations (
			id, owner_id, title, description, image_ref, quantity, expiry_at,
			status, claimant_id, claimed_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12
		)
	`

	_, err := r.pool.Exec(ctx, query,
		donation.ID, donation.OwnerID, donation.Title, donation.Description,
		donation.ImageRef, donation.Quantity, donation.ExpiryAt,
		donation.Status, donation.ClaimantID, donation.ClaimedAt,
		donation.CreatedAt, donation.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert donation: %w", err)
	}

	return nil
}

// GetByID - Get a live donation by id
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM donations
		WHERE id = $1 AND deleted_at IS NULL
	`, donationColumns)

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}

	donation, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Donation])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrDonationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan donation: %w", err)
	}

	return &donation, nil
}

// ClaimIfAvailable - Atomic claim arbitration.
// The WHERE status = 'available' clause is what makes concurrent claims safe:
// the database updates the row for exactly one caller.
func (r *postgresRepository) ClaimIfAvailable(ctx context.Context, id, claimantID uuid.UUID, now time.Time) (*model.Donation, error) {
	query := fmt.Sprintf(`
		UPDATE donations
		SET status = $1, claimant_id = $2, claimed_at = $3, updated_at = $3
		WHERE id = $4 AND status = $5 AND expiry_at > $3 AND deleted_at IS NULL
		RETURNING %s
	`, donationColumns)

	rows, err := r.pool.Query(ctx, query,
		model.DonationStatusClaimed.String(), claimantID, now,
		id, model.DonationStatusAvailable.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim donation: %w", err)
	}

	donation, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Donation])
	if errors.Is(err, pgx.ErrNoRows) {
		// Zero rows: the donation is gone, someone else won, or the listing
		// outlived its expiry before the sweep caught it.
		return nil, r.classifyMiss(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan claimed donation: %w", err)
	}

	return &donation, nil
}

// MarkExpiredIfAvailable - Owner-initiated close; no clock precondition
func (r *postgresRepository) MarkExpiredIfAvailable(ctx context.Context, id uuid.UUID, now time.Time) (*model.Donation, error) {
	query := fmt.Sprintf(`
		UPDATE donations
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4 AND deleted_at IS NULL
		RETURNING %s
	`, donationColumns)

	rows, err := r.pool.Query(ctx, query,
		model.DonationStatusExpired.String(), now, id,
		model.DonationStatusAvailable.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark donation expired: %w", err)
	}

	donation, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Donation])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.classifyTransitionMiss(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan expired donation: %w", err)
	}

	return &donation, nil
}

// SoftDeleteIfAvailable - Tombstone in one conditional statement.
// Claimed and expired rows never match; the claim record and the audit
// trail outlive the owner's intent to remove.
func (r *postgresRepository) SoftDeleteIfAvailable(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := `
		UPDATE donations
		SET status = $1, deleted_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4 AND deleted_at IS NULL
	`

	result, err := r.pool.Exec(ctx, query,
		model.DonationStatusDeleted.String(), now,
		id, model.DonationStatusAvailable.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to soft delete donation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return r.classifyTransitionMiss(ctx, id)
	}

	return nil
}

// UpdateIfAvailable - Rewrite editable fields while still claimable
func (r *postgresRepository) UpdateIfAvailable(ctx context.Context, donation *model.Donation) error {
	query := `
		UPDATE donations
		SET title = $1, description = $2, image_ref = $3, quantity = $4,
		    expiry_at = $5, updated_at = $6
		WHERE id = $7 AND status = $8 AND deleted_at IS NULL
	`

	result, err := r.pool.Exec(ctx, query,
		donation.Title, donation.Description, donation.ImageRef, donation.Quantity,
		donation.ExpiryAt, donation.UpdatedAt,
		donation.ID, model.DonationStatusAvailable.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update donation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return r.classifyMiss(ctx, donation.ID)
	}

	return nil
}

// page bundles one feed page with the matching total.
type page struct {
	donations []model.Donation
	total     int
}

// ListAvailable - The claimable feed, newest first with stable tiebreak.
// Count and page run in one transaction so the total matches the rows.
func (r *postgresRepository) ListAvailable(ctx context.Context, now time.Time, limit, offset int) ([]model.Donation, int, error) {
	whereClause := `status = $1 AND expiry_at > $2 AND deleted_at IS NULL`

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM donations WHERE %s`, whereClause)

	query := fmt.Sprintf(`
		SELECT %s
		FROM donations
		WHERE %s
		ORDER BY created_at DESC, id ASC
		LIMIT $3 OFFSET $4
	`, donationColumns, whereClause)

	result, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (page, error) {
		var p page

		err := tx.QueryRow(ctx, countQuery, model.DonationStatusAvailable.String(), now).Scan(&p.total)
		if err != nil {
			return p, fmt.Errorf("count query failed: %w", err)
		}

		rows, err := tx.Query(ctx, query, model.DonationStatusAvailable.String(), now, limit, offset)
		if err != nil {
			return p, fmt.Errorf("list available query failed: %w", err)
		}

		p.donations, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Donation])
		if err != nil {
			return p, fmt.Errorf("collect rows failed: %w", err)
		}
		return p, nil
	})
	if err != nil {
		log.Printf("[DonationRepo] List available error: %v", err)
		return nil, 0, err
	}

	return result.donations, result.total, nil
}

// ListByOwner - Everything an owner has published that is not tombstoned
func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Donation, int, error) {
	countQuery := `SELECT COUNT(*) FROM donations WHERE owner_id = $1 AND deleted_at IS NULL`

	query := fmt.Sprintf(`
		SELECT %s
		FROM donations
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id ASC
		LIMIT $2 OFFSET $3
	`, donationColumns)

	result, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (page, error) {
		var p page

		err := tx.QueryRow(ctx, countQuery, ownerID).Scan(&p.total)
		if err != nil {
			return p, fmt.Errorf("count query failed: %w", err)
		}

		rows, err := tx.Query(ctx, query, ownerID, limit, offset)
		if err != nil {
			return p, fmt.Errorf("list by owner query failed: %w", err)
		}

		p.donations, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Donation])
		if err != nil {
			return p, fmt.Errorf("collect rows failed: %w", err)
		}
		return p, nil
	})
	if err != nil {
		log.Printf("[DonationRepo] List by owner error: %v", err)
		return nil, 0, err
	}

	return result.donations, result.total, nil
}

// SweepExpired - Background promotion of past-expiry live donations.
// The subselect bounds the batch so a huge backlog cannot hold locks for long.
func (r *postgresRepository) SweepExpired(ctx context.Context, now time.Time, batchSize int) (int64, error) {
	query := `
		UPDATE donations
		SET status = $1, updated_at = $2
		WHERE id IN (
			SELECT id FROM donations
			WHERE status IN ($3, $4)
			  AND expiry_at <= $2
			  AND deleted_at IS NULL
			ORDER BY expiry_at ASC
			LIMIT $5
		)
	`

	result, err := r.pool.Exec(ctx, query,
		model.DonationStatusExpired.String(), now,
		model.DonationStatusAvailable.String(), model.DonationStatusClaimed.String(),
		batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired donations: %w", err)
	}

	return result.RowsAffected(), nil
}

// classifyMiss decides why a conditional write matched zero rows:
// the row is gone (not found) or its status no longer satisfies the condition
// (a concurrent writer won).
func (r *postgresRepository) classifyMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM donations WHERE id = $1 AND deleted_at IS NULL)`,
		id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to classify conditional miss: %w", err)
	}

	if !exists {
		return model.ErrDonationNotFound
	}
	return model.ErrClaimConflict
}

// classifyTransitionMiss decides why a status-guarded write matched zero
// rows: the row is gone (not found) or it sits in a state the requested
// transition does not accept (already claimed, already expired).
func (r *postgresRepository) classifyTransitionMiss(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM donations WHERE id = $1 AND deleted_at IS NULL)`,
		id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to classify conditional miss: %w", err)
	}

	if !exists {
		return model.ErrDonationNotFound
	}
	return model.ErrInvalidTransition
}
