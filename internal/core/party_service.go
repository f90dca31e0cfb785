package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PartyInput carries the writable party fields. GSTNumber is optional.
type PartyInput struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	PinCode     string  `json:"pin_code"`
	PhoneNumber string  `json:"phone_number"`
	GSTNumber   *string `json:"gst_number,omitempty"`
}

// PartyPatch is a partial update; nil fields are left unchanged.
type PartyPatch struct {
	Name        *string `json:"name,omitempty"`
	Address     *string `json:"address,omitempty"`
	PinCode     *string `json:"pin_code,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	GSTNumber   *string `json:"gst_number,omitempty"`
}

// PartyService manages business counterparties. A party referenced by any
// sales order cannot be deleted.
type PartyService interface {
	GetParties(ctx context.Context) ([]Party, error)
	GetParty(ctx context.Context, id int) (*Party, error)
	CreateParty(ctx context.Context, input PartyInput) (*Party, error)
	UpdateParty(ctx context.Context, id int, patch PartyPatch) (*Party, error)
	// DeleteParty fails with ErrHasDependents if any sales order references the party.
	DeleteParty(ctx context.Context, id int) error
}

type partyService struct {
	pool *pgxpool.Pool
}

// NewPartyService constructs a PartyService backed by PostgreSQL.
func NewPartyService(pool *pgxpool.Pool) PartyService {
	return &partyService{pool: pool}
}

const partyColumns = "id, name, address, pin_code, phone_number, gst_number, created_at"

func scanParty(row pgx.Row, p *Party) error {
	return row.Scan(&p.ID, &p.Name, &p.Address, &p.PinCode, &p.PhoneNumber, &p.GSTNumber, &p.CreatedAt)
}

func (s *partyService) GetParties(ctx context.Context) ([]Party, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+partyColumns+" FROM parties ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("query parties: %w", err)
	}
	defer rows.Close()

	var parties []Party
	for rows.Next() {
		var p Party
		if err := scanParty(rows, &p); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (s *partyService) GetParty(ctx context.Context, id int) (*Party, error) {
	var p Party
	err := scanParty(s.pool.QueryRow(ctx,
		"SELECT "+partyColumns+" FROM parties WHERE id = $1", id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(ErrNotFound, "party %d not found", id)
		}
		return nil, fmt.Errorf("fetch party %d: %w", id, err)
	}
	return &p, nil
}

func (s *partyService) CreateParty(ctx context.Context, input PartyInput) (*Party, error) {
	if input.Name == "" {
		return nil, domainErrorf(ErrValidation, "party name must not be empty")
	}

	var p Party
	err := scanParty(s.pool.QueryRow(ctx, `
		INSERT INTO parties (name, address, pin_code, phone_number, gst_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+partyColumns,
		input.Name, input.Address, input.PinCode, input.PhoneNumber, input.GSTNumber,
	), &p)
	if err != nil {
		return nil, fmt.Errorf("create party %q: %w", input.Name, err)
	}
	return &p, nil
}

func (s *partyService) UpdateParty(ctx context.Context, id int, patch PartyPatch) (*Party, error) {
	existing, err := s.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := PartyInput{
		Name:        existing.Name,
		Address:     existing.Address,
		PinCode:     existing.PinCode,
		PhoneNumber: existing.PhoneNumber,
		GSTNumber:   existing.GSTNumber,
	}
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Address != nil {
		merged.Address = *patch.Address
	}
	if patch.PinCode != nil {
		merged.PinCode = *patch.PinCode
	}
	if patch.PhoneNumber != nil {
		merged.PhoneNumber = *patch.PhoneNumber
	}
	if patch.GSTNumber != nil {
		merged.GSTNumber = patch.GSTNumber
	}
	if merged.Name == "" {
		return nil, domainErrorf(ErrValidation, "party name must not be empty")
	}

	var p Party
	err = scanParty(s.pool.QueryRow(ctx, `
		UPDATE parties
		SET name = $1, address = $2, pin_code = $3, phone_number = $4, gst_number = $5
		WHERE id = $6
		RETURNING `+partyColumns,
		merged.Name, merged.Address, merged.PinCode, merged.PhoneNumber, merged.GSTNumber, id,
	), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(ErrNotFound, "party %d not found", id)
		}
		return nil, fmt.Errorf("update party %d: %w", id, err)
	}
	return &p, nil
}

func (s *partyService) DeleteParty(ctx context.Context, id int) error {
	var orderCount int
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM sales_orders WHERE party_id = $1", id).Scan(&orderCount)
	if err != nil {
		return fmt.Errorf("count party %d dependents: %w", id, err)
	}
	if orderCount > 0 {
		return domainErrorf(ErrHasDependents,
			"cannot delete party %d: it has %d related sales orders", id, orderCount)
	}

	tag, err := s.pool.Exec(ctx, "DELETE FROM parties WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete party %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrorf(ErrNotFound, "party %d not found", id)
	}
	return nil
}
