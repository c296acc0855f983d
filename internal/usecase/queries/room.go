package queries

import (
	"context"

	"studyseat/internal/infra"
	"studyseat/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrRoomQuery = errs.New("failed to query rooms")

type RoomQueries interface {
	List(ctx context.Context) ([]*RoomView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*RoomView, error)
}

type roomQueriesImpl struct {
	repo RoomViewRepo
}

func NewRoomQueries(repo RoomViewRepo) RoomQueries {
	return &roomQueriesImpl{repo: repo}
}

func (q *roomQueriesImpl) List(ctx context.Context) ([]*RoomView, error) {
	rooms, err := q.repo.List(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrRoomQuery)
	}
	return rooms, nil
}

func (q *roomQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*RoomView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, errs.Mark(err, ErrRoomQuery)
	}
	return view, nil
}
