//go:build unit

package commands_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"studyseat/internal/domain/booking"
	"studyseat/internal/domain/user"
	reqdto "studyseat/internal/handler/dto/request"
	"studyseat/internal/infra"
	"studyseat/internal/pkg/clock"
	"studyseat/internal/usecase/commands"
	"studyseat/internal/usecase/queries"
	"studyseat/internal/usecase/shared"
	queriesmock "studyseat/tests/mock/queries"
	sharedmock "studyseat/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingCommandsTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	uow         *sharedmock.MockUnitOfWork
	tx          *sharedmock.MockTx
	bookings    *sharedmock.MockBookingRepository
	seats       *sharedmock.MockSeatRepository
	users       *sharedmock.MockUserRepository
	idempotency *sharedmock.MockIdempotencyRepository
	txIdem      *sharedmock.MockIdempotencyRepository
	views       *queriesmock.MockBookingQueries
	clock       *clock.MockClock
	commands    commands.BookingCommands

	now time.Time
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.uow = sharedmock.NewMockUnitOfWork(s.ctrl)
	s.tx = sharedmock.NewMockTx(s.ctrl)
	s.bookings = sharedmock.NewMockBookingRepository(s.ctrl)
	s.seats = sharedmock.NewMockSeatRepository(s.ctrl)
	s.users = sharedmock.NewMockUserRepository(s.ctrl)
	s.idempotency = sharedmock.NewMockIdempotencyRepository(s.ctrl)
	s.txIdem = sharedmock.NewMockIdempotencyRepository(s.ctrl)
	s.views = queriesmock.NewMockBookingQueries(s.ctrl)

	s.now = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	s.clock = clock.NewMockClock(s.now)

	s.tx.EXPECT().Bookings().Return(s.bookings).AnyTimes()
	s.tx.EXPECT().Seats().Return(s.seats).AnyTimes()
	s.tx.EXPECT().Users().Return(s.users).AnyTimes()
	s.tx.EXPECT().Idempotency().Return(s.txIdem).AnyTimes()

	s.commands = commands.NewBookingCommands(s.uow, s.idempotency, s.views, s.clock)
}

func (s *BookingCommandsTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *BookingCommandsTestSuite) passThroughUow() {
	s.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.tx)
		}).AnyTimes()
}

func (s *BookingCommandsTestSuite) validRequest() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		SeatID:  uuid.New(),
		StartAt: s.now.Add(time.Hour),
		EndAt:   s.now.Add(2 * time.Hour),
	}
}

// hashRequest mirrors the hash the command computes over the request body.
func hashRequest(req reqdto.CreateBookingRequest) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (s *BookingCommandsTestSuite) TestCreateBooking() {
	userID := uuid.New()
	key := uuid.New()

	s.Run("admin accounts are rejected before any IO", func() {
		req := s.validRequest()

		_, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleAdmin, key)

		s.ErrorIs(err, commands.ErrAdminCannotBook)
	})

	s.Run("off-grid window is rejected", func() {
		req := s.validRequest()
		req.StartAt = s.now.Add(time.Hour).Add(10 * time.Minute)

		_, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.ErrorIs(err, commands.ErrInvalidWindow)
	})

	s.Run("existing active booking blocks a second one", func() {
		req := s.validRequest()
		s.expectClaim(key, userID)
		s.passThroughUow()

		s.users.EXPECT().LockByID(gomock.Any(), userID).Return(nil)
		s.bookings.EXPECT().HasLiveByUser(gomock.Any(), userID, s.now).Return(true, nil)

		_, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.ErrorIs(err, commands.ErrActiveBookingExists)
	})

	s.Run("closed seat is unavailable", func() {
		req := s.validRequest()
		s.expectClaim(key, userID)
		s.passThroughUow()

		s.users.EXPECT().LockByID(gomock.Any(), userID).Return(nil)
		s.bookings.EXPECT().HasLiveByUser(gomock.Any(), userID, s.now).Return(false, nil)
		s.seats.EXPECT().FindForUpdate(gomock.Any(), req.SeatID).
			Return(&shared.SeatSnapshot{ID: req.SeatID, IsOpen: false}, nil)

		_, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.ErrorIs(err, commands.ErrSeatUnavailable)
	})

	s.Run("unknown seat is unavailable", func() {
		req := s.validRequest()
		s.expectClaim(key, userID)
		s.passThroughUow()

		s.users.EXPECT().LockByID(gomock.Any(), userID).Return(nil)
		s.bookings.EXPECT().HasLiveByUser(gomock.Any(), userID, s.now).Return(false, nil)
		s.seats.EXPECT().FindForUpdate(gomock.Any(), req.SeatID).
			Return(nil, infra.WrapRepoErr("seat not found", nil, infra.KindNotFound))

		_, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.ErrorIs(err, commands.ErrSeatUnavailable)
	})

	s.Run("overlapping booking conflicts", func() {
		req := s.validRequest()
		s.expectClaim(key, userID)
		s.passThroughUow()

		s.users.EXPECT().LockByID(gomock.Any(), userID).Return(nil)
		s.bookings.EXPECT().HasLiveByUser(gomock.Any(), userID, s.now).Return(false, nil)
		s.seats.EXPECT().FindForUpdate(gomock.Any(), req.SeatID).
			Return(&shared.SeatSnapshot{ID: req.SeatID, IsOpen: true}, nil)
		s.bookings.EXPECT().HasOverlapping(gomock.Any(), req.SeatID, gomock.Any()).Return(true, nil)

		_, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.ErrorIs(err, commands.ErrSeatConflict)
	})

	s.Run("exclusion constraint violation surfaces as conflict", func() {
		req := s.validRequest()
		s.expectClaim(key, userID)
		s.passThroughUow()

		s.users.EXPECT().LockByID(gomock.Any(), userID).Return(nil)
		s.bookings.EXPECT().HasLiveByUser(gomock.Any(), userID, s.now).Return(false, nil)
		s.seats.EXPECT().FindForUpdate(gomock.Any(), req.SeatID).
			Return(&shared.SeatSnapshot{ID: req.SeatID, IsOpen: true}, nil)
		s.bookings.EXPECT().HasOverlapping(gomock.Any(), req.SeatID, gomock.Any()).Return(false, nil)
		s.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("overlap", nil, infra.KindConflict))

		_, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.ErrorIs(err, commands.ErrSeatConflict)
	})

	s.Run("successful booking returns the stored view", func() {
		req := s.validRequest()
		s.expectClaim(key, userID)
		s.passThroughUow()

		var createdID uuid.UUID
		s.users.EXPECT().LockByID(gomock.Any(), userID).Return(nil)
		s.bookings.EXPECT().HasLiveByUser(gomock.Any(), userID, s.now).Return(false, nil)
		s.seats.EXPECT().FindForUpdate(gomock.Any(), req.SeatID).
			Return(&shared.SeatSnapshot{ID: req.SeatID, IsOpen: true}, nil)
		s.bookings.EXPECT().HasOverlapping(gomock.Any(), req.SeatID, gomock.Any()).Return(false, nil)
		s.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b *booking.Booking) error {
				createdID = b.ID()
				s.Equal(userID, b.UserID())
				s.Equal(req.SeatID, b.SeatID())
				s.Equal(booking.StatusBooked, b.Status())
				s.False(b.Token().IsEmpty())
				return nil
			})
		s.txIdem.EXPECT().
			MarkCompleted(gomock.Any(), key, userID, gomock.Any()).Return(nil)
		s.views.EXPECT().GetByIDSystem(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
				s.Equal(createdID, id)
				return &queries.BookingView{ID: id, SeatID: req.SeatID, UserID: userID, Status: "booked"}, nil
			})

		result, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.NoError(err)
		s.False(result.IsReplayed)
		s.Equal(createdID, result.Booking.ID)
	})

	s.Run("completed key replays the original booking", func() {
		req := s.validRequest()
		bookingID := uuid.New()

		s.idempotency.EXPECT().
			TryInsert(gomock.Any(), key, userID, "POST /bookings", gomock.Any(), gomock.Any()).
			Return(false, nil)
		s.idempotency.EXPECT().
			Get(gomock.Any(), key, userID).
			DoAndReturn(func(_ context.Context, k, u uuid.UUID) (*shared.IdempotencyRecord, error) {
				return &shared.IdempotencyRecord{
					Key:             k,
					UserID:          u,
					RequestHash:     hashRequest(req),
					Status:          "completed",
					ResultBookingID: &bookingID,
					ExpiresAt:       s.now.Add(time.Hour),
				}, nil
			})
		s.views.EXPECT().GetByIDSystem(gomock.Any(), bookingID).
			Return(&queries.BookingView{ID: bookingID}, nil)

		result, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.NoError(err)
		s.True(result.IsReplayed)
		s.Equal(bookingID, result.Booking.ID)
	})

	s.Run("concurrent processing claim is reported", func() {
		req := s.validRequest()

		s.idempotency.EXPECT().
			TryInsert(gomock.Any(), key, userID, "POST /bookings", gomock.Any(), gomock.Any()).
			Return(false, nil)
		s.idempotency.EXPECT().
			Get(gomock.Any(), key, userID).
			Return(&shared.IdempotencyRecord{
				Key:         key,
				UserID:      userID,
				RequestHash: hashRequest(req),
				Status:      "processing",
				ExpiresAt:   s.now.Add(time.Hour),
			}, nil)

		_, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.ErrorIs(err, commands.ErrIdempotencyInProgress)
	})

	s.Run("unexpired claim read back with microsecond precision is still in progress", func() {
		req := s.validRequest()

		s.idempotency.EXPECT().
			TryInsert(gomock.Any(), key, userID, "POST /bookings", gomock.Any(), gomock.Any()).
			Return(false, nil)
		s.idempotency.EXPECT().
			Get(gomock.Any(), key, userID).
			Return(&shared.IdempotencyRecord{
				Key:         key,
				UserID:      userID,
				RequestHash: hashRequest(req),
				Status:      "processing",
				// timestamptz keeps microseconds only.
				ExpiresAt: s.now.Add(24 * time.Hour).Truncate(time.Microsecond),
			}, nil)

		_, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.ErrorIs(err, commands.ErrIdempotencyInProgress)
	})

	s.Run("fresh claim with a sub-microsecond clock reading succeeds", func() {
		// No Get expectation: the insert alone decides ownership, so the
		// stored expiry never has to match the in-memory one.
		s.clock.Set(time.Date(2026, 9, 1, 8, 0, 0, 123456789, time.UTC))
		defer s.clock.Set(s.now)

		req := s.validRequest()
		s.expectClaim(key, userID)
		s.passThroughUow()

		s.users.EXPECT().LockByID(gomock.Any(), userID).Return(nil)
		s.bookings.EXPECT().HasLiveByUser(gomock.Any(), userID, gomock.Any()).Return(false, nil)
		s.seats.EXPECT().FindForUpdate(gomock.Any(), req.SeatID).
			Return(&shared.SeatSnapshot{ID: req.SeatID, IsOpen: true}, nil)
		s.bookings.EXPECT().HasOverlapping(gomock.Any(), req.SeatID, gomock.Any()).Return(false, nil)
		s.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.txIdem.EXPECT().MarkCompleted(gomock.Any(), key, userID, gomock.Any()).Return(nil)
		s.views.EXPECT().GetByIDSystem(gomock.Any(), gomock.Any()).
			Return(&queries.BookingView{SeatID: req.SeatID, UserID: userID, Status: "booked"}, nil)

		result, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.NoError(err)
		s.False(result.IsReplayed)
	})

	s.Run("same key with different payload is rejected", func() {
		req := s.validRequest()

		s.idempotency.EXPECT().
			TryInsert(gomock.Any(), key, userID, "POST /bookings", gomock.Any(), gomock.Any()).
			Return(false, nil)
		s.idempotency.EXPECT().
			Get(gomock.Any(), key, userID).
			Return(&shared.IdempotencyRecord{
				Key:         key,
				UserID:      userID,
				RequestHash: "some-other-hash",
				Status:      "processing",
				ExpiresAt:   s.now.Add(24 * time.Hour),
			}, nil)

		_, err := s.commands.CreateBooking(context.Background(), req, userID, user.RoleStudent, key)

		s.ErrorIs(err, commands.ErrDuplicateRequest)
	})
}

func (s *BookingCommandsTestSuite) TestCancelBooking() {
	userID := uuid.New()
	bookingID := uuid.New()

	s.Run("owner cancels a live booking", func() {
		s.passThroughUow()
		s.bookings.EXPECT().FindByID(gomock.Any(), bookingID).
			Return(&shared.BookingSnapshot{ID: bookingID, UserID: userID, Status: booking.StatusBooked}, nil)
		s.bookings.EXPECT().SetStatus(gomock.Any(), bookingID, booking.StatusCancelled).Return(nil)

		s.NoError(s.commands.CancelBooking(context.Background(), bookingID, userID))
	})

	s.Run("cancelling twice is a no-op", func() {
		s.passThroughUow()
		s.bookings.EXPECT().FindByID(gomock.Any(), bookingID).
			Return(&shared.BookingSnapshot{ID: bookingID, UserID: userID, Status: booking.StatusCancelled}, nil)

		s.NoError(s.commands.CancelBooking(context.Background(), bookingID, userID))
	})

	s.Run("another user's booking looks like not-owner", func() {
		s.passThroughUow()
		s.bookings.EXPECT().FindByID(gomock.Any(), bookingID).
			Return(&shared.BookingSnapshot{ID: bookingID, UserID: uuid.New(), Status: booking.StatusBooked}, nil)

		s.ErrorIs(s.commands.CancelBooking(context.Background(), bookingID, userID), commands.ErrNotOwner)
	})

	s.Run("missing booking also looks like not-owner", func() {
		s.passThroughUow()
		s.bookings.EXPECT().FindByID(gomock.Any(), bookingID).
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))

		s.ErrorIs(s.commands.CancelBooking(context.Background(), bookingID, userID), commands.ErrNotOwner)
	})
}

// expectClaim sets up a fresh idempotency claim: the insert lands, so the
// stored row is never read back.
func (s *BookingCommandsTestSuite) expectClaim(key, userID uuid.UUID) {
	s.idempotency.EXPECT().
		TryInsert(gomock.Any(), key, userID, "POST /bookings", gomock.Any(), gomock.Any()).
		Return(true, nil)
}
