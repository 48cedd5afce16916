package get_available_dates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	counts map[string]int
	err    error
}

func (f *fakeBookingRepo) CountActiveByDate(_ context.Context, _, _ time.Time) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
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

func newUseCase(repo BookingRepository, now time.Time) *UseCase {
	uc := NewUseCase(repo, nopLogger{})
	uc.timeProvider = &fixedTime{now: now}
	return uc
}

func TestExecute_FridaysUnavailable(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) // Monday
	uc := newUseCase(&fakeBookingRepo{counts: map[string]int{}}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 13),
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"2026-03-06", "2026-03-13"}, resp.UnavailableDates)
	assert.Len(t, resp.AvailableDates, 12)
}

func TestExecute_FullDayUnavailable(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{counts: map[string]int{
		"2026-03-03": 5, // все 5 слотов заняты
		"2026-03-04": 4, // один слот свободен
	}}
	uc := newUseCase(repo, now)

	resp, err := uc.Execute(context.Background(), &Request{
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 4),
	})
	require.NoError(t, err)

	assert.Contains(t, resp.UnavailableDates, "2026-03-03")
	assert.Contains(t, resp.AvailableDates, "2026-03-04")
}

func TestExecute_PastDatesIncluded(t *testing.T) {
	// Диапазон целиком в прошлом без бронирований:
	// доступна каждая не-пятница
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	uc := newUseCase(&fakeBookingRepo{counts: map[string]int{}}, now)

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 6),
	})
	require.NoError(t, err)

	assert.Len(t, resp.AvailableDates, 6)
	assert.Equal(t, []string{"2026-03-06"}, resp.UnavailableDates)
}

func TestExecute_DefaultRange(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	uc := newUseCase(&fakeBookingRepo{counts: map[string]int{}}, now)

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	// 61 день включительно: сегодня + 60 вперед
	assert.Len(t, resp.AvailableDates, 61-len(resp.UnavailableDates))
	assert.Equal(t, "2026-03-02", resp.AvailableDates[0])
}

func TestExecute_Idempotent(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{counts: map[string]int{"2026-03-03": 5}}
	uc := newUseCase(repo, now)

	req := &Request{StartDate: now, EndDate: now.AddDate(0, 0, 13)}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExecute_InvalidRange(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	uc := newUseCase(&fakeBookingRepo{counts: map[string]int{}}, now)

	_, err := uc.Execute(context.Background(), &Request{
		StartDate: now,
		EndDate:   now.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RepositoryError(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	uc := newUseCase(&fakeBookingRepo{err: errors.New("connection refused")}, now)

	_, err := uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInternal)
}
