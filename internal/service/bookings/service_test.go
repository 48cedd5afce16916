package bookings

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DS-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/DS-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/DS-BookingService/internal/service/bookings/models"
	"github.com/m04kA/DS-BookingService/pkg/ptr"
	"github.com/m04kA/DS-BookingService/pkg/types"
)

// fakeRepo хранит заявки в памяти и повторяет контракт репозитория:
// optimistic version check и уникальность номеров счетов
type fakeRepo struct {
	mu            sync.Mutex
	bookings      map[int64]*domain.Booking
	payments      map[int64][]domain.Payment
	invoices      map[string]struct{}
	nextPaymentID int64

	duplicateInvoiceOnce bool
	feesUpdateCalls      int
}

func newFakeRepo(bookings ...*domain.Booking) *fakeRepo {
	f := &fakeRepo{
		bookings: make(map[int64]*domain.Booking),
		payments: make(map[int64][]domain.Payment),
		invoices: make(map[string]struct{}),
	}
	for _, b := range bookings {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeRepo) GetByUserUID(_ context.Context, uid string) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.UserUID != uid {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeRepo) ListByStatus(_ context.Context, status *domain.BookingStatus, _ int) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Booking
	for _, b := range f.bookings {
		if status != nil && b.Status != *status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeRepo) UpdateDecision(_ context.Context, id int64, version int, upd bookingRepo.DecisionUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || b.Version != version {
		return bookingRepo.ErrVersionConflict
	}

	b.Status = domain.BookingStatus(upd.Status)
	if upd.AssignedPackage != nil {
		assigned := domain.AssignedPackage(*upd.AssignedPackage)
		b.AssignedPackage = &assigned
	}
	if upd.Fee != nil {
		b.Fee = upd.Fee
	}
	if upd.TotalPaid != nil {
		b.TotalPaid = *upd.TotalPaid
	}
	if upd.Due != nil {
		b.Due = *upd.Due
	}
	b.Version++
	return nil
}

func (f *fakeRepo) UpdateFees(_ context.Context, id int64, version int, upd bookingRepo.FeesUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.feesUpdateCalls++
	if f.duplicateInvoiceOnce && upd.InvoiceNumber != nil {
		f.duplicateInvoiceOnce = false
		return bookingRepo.ErrDuplicateInvoice
	}

	b, ok := f.bookings[id]
	if !ok || b.Version != version {
		return bookingRepo.ErrVersionConflict
	}

	if upd.InvoiceNumber != nil {
		if _, exists := f.invoices[*upd.InvoiceNumber]; exists {
			return bookingRepo.ErrDuplicateInvoice
		}
		f.invoices[*upd.InvoiceNumber] = struct{}{}
		b.InvoiceNumber = upd.InvoiceNumber
	}
	if upd.Fee != nil {
		b.Fee = upd.Fee
	}
	b.TotalPaid = upd.TotalPaid
	b.Due = upd.Due
	b.Version++
	return nil
}

func (f *fakeRepo) AddPayment(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextPaymentID++
	payment.ID = f.nextPaymentID
	f.payments[payment.BookingID] = append(f.payments[payment.BookingID], *payment)
	return payment, nil
}

func (f *fakeRepo) ListPayments(_ context.Context, bookingID int64) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Payment(nil), f.payments[bookingID]...), nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:           id,
		UserUID:      "uid-1",
		PackageID:    domain.Package15Days,
		SelectedDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		SelectedTime: types.TimeString("09:00"),
		Status:       domain.StatusPending,
		Phone:        "+8801712345678",
		Name:         "Test Student",
		Age:          22,
		Gender:       "male",
		WhyLearning:  domain.WhyWorkCareer,
		Address:      "12 Lake Road",
		Version:      1,
	}
}

func newService(repo *fakeRepo) *Service {
	svc := NewService(repo, fakeTxManager{}, nopLogger{})
	svc.timeSource = &fixedTime{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	return svc
}

func TestDecide_ConfirmWithFee(t *testing.T) {
	repo := newFakeRepo(pendingBooking(1))
	svc := newService(repo)

	resp, err := svc.Decide(context.Background(), 1, &models.DecideBookingRequest{
		Action:          models.ActionConfirm,
		AssignedPackage: ptr.Ptr("15-days"),
		Fee:             ptr.Ptr(1000.0),
		TotalPaid:       ptr.Ptr(400.0),
	})

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	require.NotNil(t, resp.AssignedPackage)
	assert.Equal(t, "15-days", *resp.AssignedPackage)
	require.NotNil(t, resp.Fee)
	assert.Equal(t, 1000.0, *resp.Fee)
	assert.Equal(t, 400.0, resp.TotalPaid)
	assert.Equal(t, 600.0, resp.Due)
}

func TestDecide_Reject(t *testing.T) {
	repo := newFakeRepo(pendingBooking(1))
	svc := newService(repo)

	resp, err := svc.Decide(context.Background(), 1, &models.DecideBookingRequest{
		Action: models.ActionReject,
	})

	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
}

func TestDecide_AlreadyConfirmed(t *testing.T) {
	repo := newFakeRepo(pendingBooking(1))
	svc := newService(repo)

	_, err := svc.Decide(context.Background(), 1, &models.DecideBookingRequest{
		Action:          models.ActionConfirm,
		AssignedPackage: ptr.Ptr("15-days"),
	})
	require.NoError(t, err)

	// Решение терминально: повторная попытка отклоняется
	_, err = svc.Decide(context.Background(), 1, &models.DecideBookingRequest{
		Action: models.ActionReject,
	})
	require.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Contains(t, err.Error(), "already confirmed")
}

func TestDecide_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.DecideBookingRequest
	}{
		{"unknown action", models.DecideBookingRequest{Action: "approve"}},
		{"confirm without package", models.DecideBookingRequest{Action: models.ActionConfirm}},
		{"confirm with bad package", models.DecideBookingRequest{
			Action:          models.ActionConfirm,
			AssignedPackage: ptr.Ptr("pay-as-you-go"),
		}},
		{"negative fee", models.DecideBookingRequest{
			Action:          models.ActionConfirm,
			AssignedPackage: ptr.Ptr("15-days"),
			Fee:             ptr.Ptr(-10.0),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(newFakeRepo(pendingBooking(1)))
			_, err := svc.Decide(context.Background(), 1, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDecide_NotFound(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.Decide(context.Background(), 42, &models.DecideBookingRequest{
		Action: models.ActionReject,
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateFees_PaymentClearsDue(t *testing.T) {
	repo := newFakeRepo(pendingBooking(1))
	svc := newService(repo)

	_, err := svc.Decide(context.Background(), 1, &models.DecideBookingRequest{
		Action:          models.ActionConfirm,
		AssignedPackage: ptr.Ptr("15-days"),
		Fee:             ptr.Ptr(1000.0),
		TotalPaid:       ptr.Ptr(400.0),
	})
	require.NoError(t, err)

	resp, err := svc.UpdateFees(context.Background(), 1, &models.UpdateFeesRequest{
		Payment: &models.PaymentInput{Amount: 600, Method: "cash"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1000.0, resp.TotalPaid)
	assert.Equal(t, 0.0, resp.Due)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, 600.0, resp.Payments[0].Amount)
}

func TestUpdateFees_AllocatesInvoiceOnce(t *testing.T) {
	repo := newFakeRepo(pendingBooking(1))
	svc := newService(repo)

	_, err := svc.Decide(context.Background(), 1, &models.DecideBookingRequest{
		Action:          models.ActionConfirm,
		AssignedPackage: ptr.Ptr("15-days"),
	})
	require.NoError(t, err)

	first, err := svc.UpdateFees(context.Background(), 1, &models.UpdateFeesRequest{
		Fee: ptr.Ptr(1000.0),
	})
	require.NoError(t, err)
	require.NotNil(t, first.InvoiceNumber)
	assert.True(t, strings.HasPrefix(*first.InvoiceNumber, "INV-2026-"), "got %s", *first.InvoiceNumber)

	second, err := svc.UpdateFees(context.Background(), 1, &models.UpdateFeesRequest{
		Payment: &models.PaymentInput{Amount: 200, Method: "bank"},
	})
	require.NoError(t, err)
	require.NotNil(t, second.InvoiceNumber)
	assert.Equal(t, *first.InvoiceNumber, *second.InvoiceNumber)
}

func TestUpdateFees_RetriesInvoiceCollision(t *testing.T) {
	repo := newFakeRepo(pendingBooking(1))
	repo.duplicateInvoiceOnce = true
	svc := newService(repo)

	_, err := svc.Decide(context.Background(), 1, &models.DecideBookingRequest{
		Action:          models.ActionConfirm,
		AssignedPackage: ptr.Ptr("15-days"),
	})
	require.NoError(t, err)

	resp, err := svc.UpdateFees(context.Background(), 1, &models.UpdateFeesRequest{
		Fee: ptr.Ptr(500.0),
	})

	require.NoError(t, err)
	require.NotNil(t, resp.InvoiceNumber)
	assert.GreaterOrEqual(t, repo.feesUpdateCalls, 2)
}

func TestUpdateFees_RequiresConfirmedBooking(t *testing.T) {
	svc := newService(newFakeRepo(pendingBooking(1)))

	_, err := svc.UpdateFees(context.Background(), 1, &models.UpdateFeesRequest{
		Fee: ptr.Ptr(1000.0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateFees_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.UpdateFeesRequest
	}{
		{"empty request", models.UpdateFeesRequest{}},
		{"negative fee", models.UpdateFeesRequest{Fee: ptr.Ptr(-1.0)}},
		{"negative totalPaid", models.UpdateFeesRequest{TotalPaid: ptr.Ptr(-1.0)}},
		{"zero payment", models.UpdateFeesRequest{Payment: &models.PaymentInput{Amount: 0, Method: "cash"}}},
		{"bad method", models.UpdateFeesRequest{Payment: &models.PaymentInput{Amount: 100, Method: "crypto"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(newFakeRepo(pendingBooking(1)))
			_, err := svc.UpdateFees(context.Background(), 1, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestList_FiltersByStatus(t *testing.T) {
	confirmed := pendingBooking(2)
	confirmed.Status = domain.StatusConfirmed

	repo := newFakeRepo(pendingBooking(1), confirmed)
	svc := newService(repo)

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{
		Status: ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)

	all, err := svc.List(context.Background(), &models.ListBookingsRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 2)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{
		Status: ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListByUser(t *testing.T) {
	other := pendingBooking(2)
	other.UserUID = "uid-2"

	repo := newFakeRepo(pendingBooking(1), other)
	svc := newService(repo)

	resp, err := svc.ListByUser(context.Background(), "uid-1")
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)

	empty, err := svc.ListByUser(context.Background(), "uid-3")
	require.NoError(t, err)
	assert.Empty(t, empty.Bookings)
}
