package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DS-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/DS-BookingService/internal/infra/storage/booking"
	studentModels "github.com/m04kA/DS-BookingService/internal/service/students/models"
	"github.com/m04kA/DS-BookingService/pkg/ptr"
	"github.com/m04kA/DS-BookingService/pkg/types"
)

// fakeBookingRepo повторяет поведение уникального индекса uq_bookings_slot:
// вставка занятого слота отдает ErrSlotTaken, проверка и захват атомарны
type fakeBookingRepo struct {
	mu       sync.Mutex
	occupied map[string]struct{}
	nextID   int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{occupied: make(map[string]struct{})}
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := booking.SelectedDate.Format(domain.DateFormat) + "|" + booking.SelectedTime.String()
	if _, taken := f.occupied[key]; taken {
		return nil, bookingRepo.ErrSlotTaken
	}
	f.occupied[key] = struct{}{}

	f.nextID++
	booking.ID = f.nextID
	booking.Version = 1
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	return booking, nil
}

type fakeStudents struct {
	resolveErr error
	byUID      map[string]*studentModels.StudentResponse
	byEmail    map[string]*studentModels.StudentResponse
}

func (f *fakeStudents) ResolveOrCreate(_ context.Context, uid string, _ studentModels.ContactInfo) (*studentModels.StudentResponse, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &studentModels.StudentResponse{StudentID: "TS260001"}, nil
}

func (f *fakeStudents) GetByUID(_ context.Context, uid string) (*studentModels.StudentResponse, error) {
	if s, ok := f.byUID[uid]; ok {
		return s, nil
	}
	return nil, errors.New("student not found")
}

func (f *fakeStudents) GetByEmail(_ context.Context, email string) (*studentModels.StudentResponse, error) {
	if s, ok := f.byEmail[email]; ok {
		return s, nil
	}
	return nil, errors.New("student not found")
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func validRequest() *Request {
	return &Request{
		UserUID:      "uid-1",
		PackageID:    "15-days",
		SelectedDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), // Monday
		SelectedTime: types.TimeString("09:00"),
		Phone:        "+8801712345678",
		Email:        ptr.Ptr("student@example.com"),
		Name:         "Test Student",
		Age:          22,
		Gender:       "male",
		WhyLearning:  "work-career",
		Address:      "12 Lake Road",
	}
}

func newUseCase(repo BookingRepository, students StudentDirectory) *UseCase {
	return NewUseCase(repo, students, &fakeTxManager{}, nopLogger{})
}

func TestExecute_Success(t *testing.T) {
	uc := newUseCase(newFakeBookingRepo(), &fakeStudents{})

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "TS260001", resp.StudentID)
	assert.Equal(t, "09:00", resp.SelectedTime.String())
}

func TestExecute_ClosedDay(t *testing.T) {
	uc := newUseCase(newFakeBookingRepo(), &fakeStudents{})

	req := validRequest()
	req.SelectedDate = time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC) // Friday

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrClosedDay)
}

func TestExecute_InvalidSlot(t *testing.T) {
	uc := newUseCase(newFakeBookingRepo(), &fakeStudents{})

	req := validRequest()
	req.SelectedTime = types.TimeString("06:30")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestExecute_MissingFieldsEnumerated(t *testing.T) {
	uc := newUseCase(newFakeBookingRepo(), &fakeStudents{})

	req := validRequest()
	req.Phone = ""
	req.Name = ""
	req.Address = ""

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrMissingFields)
	assert.Contains(t, err.Error(), "phone")
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "address")
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"unknown package", func(r *Request) { r.PackageID = "2-weeks" }},
		{"age too low", func(r *Request) { r.Age = 15 }},
		{"age too high", func(r *Request) { r.Age = 101 }},
		{"unknown whyLearning", func(r *Request) { r.WhyLearning = "boredom" }},
		{"malformed time", func(r *Request) { r.SelectedTime = types.TimeString("9am") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(newFakeBookingRepo(), &fakeStudents{})
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_SequentialDuplicate(t *testing.T) {
	repo := newFakeBookingRepo()
	uc := newUseCase(repo, &fakeStudents{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.UserUID = "uid-2"
	_, err = uc.Execute(context.Background(), second)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_ConcurrentMutualExclusion(t *testing.T) {
	const n = 10

	repo := newFakeBookingRepo()
	uc := newUseCase(repo, &fakeStudents{})

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.UserUID = fmt.Sprintf("uid-%d", i)
			_, errs[i] = uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrSlotTaken):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, won)
	assert.Equal(t, n-1, lost)
}

func TestExecute_StudentLinkageRecoveredByUID(t *testing.T) {
	students := &fakeStudents{
		resolveErr: errors.New("counter unavailable"),
		byUID: map[string]*studentModels.StudentResponse{
			"uid-1": {StudentID: "TS260042"},
		},
	}
	uc := newUseCase(newFakeBookingRepo(), students)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "TS260042", resp.StudentID)
}

func TestExecute_StudentLinkageRecoveredByEmail(t *testing.T) {
	students := &fakeStudents{
		resolveErr: errors.New("counter unavailable"),
		byEmail: map[string]*studentModels.StudentResponse{
			"student@example.com": {StudentID: "TS260007"},
		},
	}
	uc := newUseCase(newFakeBookingRepo(), students)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "TS260007", resp.StudentID)
}

func TestExecute_UnrecoveredLinkageSurfacesInternalError(t *testing.T) {
	repo := newFakeBookingRepo()
	students := &fakeStudents{resolveErr: errors.New("storage down")}
	uc := newUseCase(repo, students)

	_, err := uc.Execute(context.Background(), validRequest())

	// Привязка не восстановилась ни по uid, ни по email
	require.ErrorIs(t, err, ErrInternal)

	// Заявка при этом осталась зафиксированной: слот занят
	second := validRequest()
	second.UserUID = "uid-2"
	_, err = uc.Execute(context.Background(), second)
	assert.ErrorIs(t, err, ErrSlotTaken)
}
