package repository

import (
	"context"

	"studyseat/internal/infra"
	"studyseat/internal/infra/db"
	"studyseat/internal/usecase/shared"

	"github.com/google/uuid"
)

type SeatRepository struct {
	db db.DBTX
}

func NewSeatRepository(dbtx db.DBTX) *SeatRepository {
	return &SeatRepository{db: dbtx}
}

func (r *SeatRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*shared.SeatSnapshot, error) {
	const query = `
		SELECT id, room_id, label, is_open, COALESCE(note, '')
		FROM seats
		WHERE id = $1
		FOR UPDATE`

	var snap shared.SeatSnapshot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&snap.ID, &snap.RoomID, &snap.Label, &snap.IsOpen, &snap.Note,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("seat not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find seat", err)
	}
	return &snap, nil
}

func (r *SeatRepository) SetState(ctx context.Context, id uuid.UUID, isOpen bool, note string) error {
	const query = `UPDATE seats SET is_open = $2, note = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, isOpen, note)
	if err != nil {
		return infra.WrapRepoErr("failed to update seat state", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("seat not found", nil, infra.KindNotFound)
	}
	return nil
}
