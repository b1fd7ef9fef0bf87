package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carmatch_backend/internal/leads/domain"
	"carmatch_backend/platform/apperr"
)

const leadColumns = `id, buyer_name, buyer_email, buyer_phone, buyer_notes, listing_id, dealer_name, status, created_at`

const eventColumns = `id, lead_id, action, description, created_at`

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) CreateLead(ctx context.Context, params CreateLeadParams) (Lead, LeadEvent, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, LeadEvent{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var lead Lead
	err = tx.QueryRow(ctx, `
		INSERT INTO leads (buyer_name, buyer_email, buyer_phone, buyer_notes, listing_id, dealer_name, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+leadColumns,
		params.BuyerName, params.BuyerEmail, params.BuyerPhone, params.BuyerNotes,
		params.ListingID, params.DealerName, string(domain.StatusNew),
	).Scan(scanLeadDest(&lead)...)
	if err != nil {
		return Lead{}, LeadEvent{}, fmt.Errorf("failed to insert lead: %w", err)
	}

	event, err := insertEvent(ctx, tx, lead.ID, domain.ActionCreated, nil)
	if err != nil {
		return Lead{}, LeadEvent{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, LeadEvent{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return lead, event, nil
}

func (r *PostgresRepository) GetLead(ctx context.Context, id int64) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1
	`, id).Scan(scanLeadDest(&lead)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.NotFound("Lead not found")
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// ChangeStatus takes a row lock on the lead before inspecting its current
// status, so two concurrent transitions on the same lead serialize and the
// loser re-validates against the winner's committed status.
func (r *PostgresRepository) ChangeStatus(ctx context.Context, id int64, next domain.Status) (Lead, LeadEvent, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, LeadEvent{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM leads WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, LeadEvent{}, apperr.NotFound("Lead not found")
	}
	if err != nil {
		return Lead{}, LeadEvent{}, err
	}

	if err := domain.Status(current).CheckTransition(next); err != nil {
		return Lead{}, LeadEvent{}, err
	}

	var lead Lead
	err = tx.QueryRow(ctx, `
		UPDATE leads SET status = $2
		WHERE id = $1
		RETURNING `+leadColumns,
		id, string(next),
	).Scan(scanLeadDest(&lead)...)
	if err != nil {
		return Lead{}, LeadEvent{}, fmt.Errorf("failed to update lead status: %w", err)
	}

	description := fmt.Sprintf("Status changed from %s to %s", current, next)
	event, err := insertEvent(ctx, tx, id, string(next), &description)
	if err != nil {
		return Lead{}, LeadEvent{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, LeadEvent{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return lead, event, nil
}

// AppendEvent locks the lead row even though the status stays untouched, so
// audit appends and status changes on the same lead never interleave.
func (r *PostgresRepository) AppendEvent(ctx context.Context, id int64, action string, description *string) (LeadEvent, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return LeadEvent{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists int64
	err = tx.QueryRow(ctx, `SELECT id FROM leads WHERE id = $1 FOR UPDATE`, id).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeadEvent{}, apperr.NotFound("Lead not found")
	}
	if err != nil {
		return LeadEvent{}, err
	}

	event, err := insertEvent(ctx, tx, id, action, description)
	if err != nil {
		return LeadEvent{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return LeadEvent{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return event, nil
}

func (r *PostgresRepository) ListEvents(ctx context.Context, leadID int64) ([]LeadEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM lead_events
		WHERE lead_id = $1
		ORDER BY created_at ASC, id ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]LeadEvent, 0)
	for rows.Next() {
		var event LeadEvent
		if err := rows.Scan(&event.ID, &event.LeadID, &event.Action, &event.Description, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return events, nil
}

func (r *PostgresRepository) ListAdmin(ctx context.Context, params ListParams) ([]LeadWithListing, int, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	offset := (params.Page - 1) * params.Limit

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+prefixedLeadColumns("l")+`, `+listingLabelExpr+`
		FROM leads l
		LEFT JOIN listings li ON li.id = l.listing_id
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $1 OFFSET $2
	`, params.Limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads, err := collectLeadsWithListing(rows)
	if err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

func (r *PostgresRepository) ListByDealer(ctx context.Context, dealerName string) ([]LeadWithListing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prefixedLeadColumns("l")+`, `+listingLabelExpr+`
		FROM leads l
		LEFT JOIN listings li ON li.id = l.listing_id
		WHERE l.dealer_name = $1
		ORDER BY l.created_at DESC, l.id DESC
	`, dealerName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeadsWithListing(rows)
}

func (r *PostgresRepository) Summary(ctx context.Context) (Summary, error) {
	summary := Summary{ByStatus: make(map[string]int64)}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE created_at >= date_trunc('day', now()))
		FROM leads
	`).Scan(&summary.Total, &summary.Today)
	if err != nil {
		return Summary{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, err
		}
		summary.ByStatus[status] = count
	}
	if rows.Err() != nil {
		return Summary{}, rows.Err()
	}

	return summary, nil
}

// listingLabelExpr builds the "2021 Toyota Highlander XLE" style display
// label from the joined listing, NULL when the listing is gone.
const listingLabelExpr = `CASE WHEN li.id IS NULL THEN NULL
	ELSE concat_ws(' ', li.year::text, li.make, li.model, li.trim) END AS listing_label`

func insertEvent(ctx context.Context, tx pgx.Tx, leadID int64, action string, description *string) (LeadEvent, error) {
	var event LeadEvent
	err := tx.QueryRow(ctx, `
		INSERT INTO lead_events (lead_id, action, description)
		VALUES ($1, $2, $3)
		RETURNING `+eventColumns,
		leadID, action, description,
	).Scan(&event.ID, &event.LeadID, &event.Action, &event.Description, &event.CreatedAt)
	if err != nil {
		return LeadEvent{}, fmt.Errorf("failed to insert lead event: %w", err)
	}
	return event, nil
}

func scanLeadDest(lead *Lead) []any {
	return []any{
		&lead.ID,
		&lead.BuyerName,
		&lead.BuyerEmail,
		&lead.BuyerPhone,
		&lead.BuyerNotes,
		&lead.ListingID,
		&lead.DealerName,
		&lead.Status,
		&lead.CreatedAt,
	}
}

func prefixedLeadColumns(alias string) string {
	return fmt.Sprintf(
		`%[1]s.id, %[1]s.buyer_name, %[1]s.buyer_email, %[1]s.buyer_phone, %[1]s.buyer_notes, %[1]s.listing_id, %[1]s.dealer_name, %[1]s.status, %[1]s.created_at`,
		alias,
	)
}

func collectLeadsWithListing(rows pgx.Rows) ([]LeadWithListing, error) {
	leads := make([]LeadWithListing, 0)
	for rows.Next() {
		var lead LeadWithListing
		dest := append(scanLeadDest(&lead.Lead), &lead.ListingLabel)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return leads, nil
}
