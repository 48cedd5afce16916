package students

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DS-BookingService/internal/domain"
	studentRepo "github.com/m04kA/DS-BookingService/internal/infra/storage/student"
	"github.com/m04kA/DS-BookingService/internal/service/students/models"
	"github.com/m04kA/DS-BookingService/pkg/ptr"
)

// fakeRepo повторяет контракт репозитория студентов: уникальность uid
// и атомарный счетчик порядковых номеров
type fakeRepo struct {
	mu       sync.Mutex
	byUID    map[string]*domain.Student
	counters map[string]int
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byUID:    make(map[string]*domain.Student),
		counters: make(map[string]int),
	}
}

func (f *fakeRepo) GetByUID(_ context.Context, uid string) (*domain.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.byUID[uid]
	if !ok {
		return nil, studentRepo.ErrStudentNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*domain.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.byUID {
		if s.Email == email {
			clone := *s
			return &clone, nil
		}
	}
	return nil, studentRepo.ErrStudentNotFound
}

func (f *fakeRepo) GetByStudentID(_ context.Context, studentID string) (*domain.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.byUID {
		if s.StudentID == studentID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, studentRepo.ErrStudentNotFound
}

func (f *fakeRepo) Create(_ context.Context, student *domain.Student) (*domain.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byUID[student.UID]; exists {
		return nil, studentRepo.ErrDuplicateStudent
	}

	f.nextID++
	student.ID = f.nextID
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	clone := *student
	f.byUID[student.UID] = &clone
	return student, nil
}

func (f *fakeRepo) UpdateContact(_ context.Context, uid string, upd studentRepo.ContactUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.byUID[uid]
	if !ok {
		return studentRepo.ErrStudentNotFound
	}
	if upd.Email != nil {
		s.Email = *upd.Email
	}
	if upd.Phone != nil {
		s.Phone = *upd.Phone
	}
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.Age != nil {
		s.Age = upd.Age
	}
	if upd.Gender != nil {
		s.Gender = *upd.Gender
	}
	if upd.Address != nil {
		s.Address = upd.Address
	}
	return nil
}

func (f *fakeRepo) UpdateProfile(_ context.Context, uid string, upd studentRepo.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.byUID[uid]
	if !ok {
		return studentRepo.ErrStudentNotFound
	}
	if upd.Phone != nil {
		s.Phone = *upd.Phone
	}
	if upd.Age != nil {
		s.Age = upd.Age
	}
	if upd.Occupation != nil {
		s.Occupation = upd.Occupation
	}
	if upd.DateOfBirth != nil {
		s.DateOfBirth = upd.DateOfBirth
	}
	return nil
}

func (f *fakeRepo) Complete(_ context.Context, studentID, certificateID, certificateLink string, completedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.byUID {
		if s.StudentID == studentID {
			s.Status = domain.StudentCompleted
			s.CertificateID = &certificateID
			s.CertificateLink = &certificateLink
			s.CompletionDate = &completedAt
			return nil
		}
	}
	return studentRepo.ErrStudentNotFound
}

func (f *fakeRepo) NextStudentSequence(_ context.Context, yearPrefix string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counters[yearPrefix]++
	return f.counters[yearPrefix], nil
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

func newService(repo StudentRepository) *Service {
	svc := NewService(repo, "https://portal.example.com/", nopLogger{})
	svc.timeSource = &fixedTime{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	return svc
}

func contact() models.ContactInfo {
	return models.ContactInfo{
		Email:   ptr.Ptr("student@example.com"),
		Phone:   "+8801712345678",
		Name:    "Test Student",
		Age:     22,
		Gender:  "male",
		Address: "12 Lake Road",
	}
}

func TestResolveOrCreate_AllocatesSequentialIDs(t *testing.T) {
	svc := newService(newFakeRepo())

	first, err := svc.ResolveOrCreate(context.Background(), "uid-1", contact())
	require.NoError(t, err)
	assert.Equal(t, "TS260001", first.StudentID)
	assert.Equal(t, "pending", first.Status)

	c := contact()
	c.Email = ptr.Ptr("other@example.com")
	second, err := svc.ResolveOrCreate(context.Background(), "uid-2", c)
	require.NoError(t, err)
	assert.Equal(t, "TS260002", second.StudentID)
}

func TestResolveOrCreate_Idempotent(t *testing.T) {
	svc := newService(newFakeRepo())

	first, err := svc.ResolveOrCreate(context.Background(), "uid-1", contact())
	require.NoError(t, err)

	// Повторный вызов без изменений возвращает ту же запись
	again, err := svc.ResolveOrCreate(context.Background(), "uid-1", contact())
	require.NoError(t, err)
	assert.Equal(t, first.StudentID, again.StudentID)
}

func TestResolveOrCreate_MergesChangedContact(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	_, err := svc.ResolveOrCreate(context.Background(), "uid-1", contact())
	require.NoError(t, err)

	updated := contact()
	updated.Phone = "+8801999999999"
	updated.Name = "Renamed Student"

	resp, err := svc.ResolveOrCreate(context.Background(), "uid-1", updated)
	require.NoError(t, err)
	assert.Equal(t, "+8801999999999", resp.Phone)
	assert.Equal(t, "Renamed Student", resp.Name)
	// Номер не перевыдается
	assert.Equal(t, "TS260001", resp.StudentID)
}

func TestResolveOrCreate_ConcurrentDistinctIDs(t *testing.T) {
	const m = 50

	svc := newService(newFakeRepo())

	ids := make([]string, m)
	errs := make([]error, m)
	var wg sync.WaitGroup
	for i := 0; i < m; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := contact()
			c.Email = ptr.Ptr(fmt.Sprintf("student%d@example.com", i))
			resp, err := svc.ResolveOrCreate(context.Background(), fmt.Sprintf("uid-%d", i), c)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = resp.StudentID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, m)
	for i := 0; i < m; i++ {
		require.NoError(t, errs[i])
		_, dup := seen[ids[i]]
		require.False(t, dup, "duplicate student id %s", ids[i])
		seen[ids[i]] = struct{}{}
	}
	assert.Len(t, seen, m)
}

func TestResolveOrCreate_ConcurrentSameUID(t *testing.T) {
	const n = 10

	svc := newService(newFakeRepo())

	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.ResolveOrCreate(context.Background(), "uid-1", contact())
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = resp.StudentID
		}(i)
	}
	wg.Wait()

	// Все вызовы сходятся к одной записи
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.ResolveOrCreate(context.Background(), "uid-1", contact())
	require.NoError(t, err)

	resp, err := svc.UpdateProfile(context.Background(), "uid-1", &models.UpdateProfileRequest{
		Occupation:  ptr.Ptr("engineer"),
		DateOfBirth: ptr.Ptr("2004-01-15"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Occupation)
	assert.Equal(t, "engineer", *resp.Occupation)
	require.NotNil(t, resp.DateOfBirth)
	assert.Equal(t, "2004-01-15", *resp.DateOfBirth)
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.ResolveOrCreate(context.Background(), "uid-1", contact())
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), "uid-1", &models.UpdateProfileRequest{
		Age: ptr.Ptr(12),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateProfile(context.Background(), "uid-1", &models.UpdateProfileRequest{
		DateOfBirth: ptr.Ptr("15/01/2004"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestComplete_StampsCertificate(t *testing.T) {
	svc := newService(newFakeRepo())

	created, err := svc.ResolveOrCreate(context.Background(), "uid-1", contact())
	require.NoError(t, err)

	resp, err := svc.Complete(context.Background(), created.StudentID)
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.CertificateID)
	assert.True(t, strings.HasPrefix(*resp.CertificateID, "CERT-2026-"), "got %s", *resp.CertificateID)
	require.NotNil(t, resp.CertificateLink)
	assert.Equal(t, "https://portal.example.com/certificate/"+*resp.CertificateID, *resp.CertificateLink)
	require.NotNil(t, resp.CompletionDate)
}

func TestComplete_AlreadyCompleted(t *testing.T) {
	svc := newService(newFakeRepo())

	created, err := svc.ResolveOrCreate(context.Background(), "uid-1", contact())
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), created.StudentID)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), created.StudentID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestComplete_NotFound(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.Complete(context.Background(), "TS269999")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestSearchByStudentID(t *testing.T) {
	svc := newService(newFakeRepo())

	created, err := svc.ResolveOrCreate(context.Background(), "uid-1", contact())
	require.NoError(t, err)

	found, err := svc.SearchByStudentID(context.Background(), created.StudentID)
	require.NoError(t, err)
	assert.Equal(t, created.StudentID, found.StudentID)

	_, err = svc.SearchByStudentID(context.Background(), "TS269999")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}
