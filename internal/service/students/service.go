package students

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/DS-BookingService/internal/domain"
	studentRepo "github.com/m04kA/DS-BookingService/internal/infra/storage/student"
	"github.com/m04kA/DS-BookingService/internal/service/students/models"
)

// Service сервис учета студентов: выдача студенческих номеров,
// профиль и завершение курса
type Service struct {
	studentRepo        StudentRepository
	timeSource         TimeProvider
	certificateBaseURL string
	logger             Logger
}

// NewService создает новый экземпляр сервиса студентов
func NewService(
	studentRepo StudentRepository,
	certificateBaseURL string,
	logger Logger,
) *Service {
	return &Service{
		studentRepo:        studentRepo,
		timeSource:         &RealTimeProvider{},
		certificateBaseURL: strings.TrimRight(certificateBaseURL, "/"),
		logger:             logger,
	}
}

// ResolveOrCreate находит запись студента по uid или создает новую.
// Для существующей записи обновляет изменившиеся контактные данные.
// Для новой выдает студенческий номер из годового счетчика; конкурентное
// первое бронирование разруливается повторным чтением по uid после
// нарушения уникальности.
func (s *Service) ResolveOrCreate(ctx context.Context, uid string, contact models.ContactInfo) (*models.StudentResponse, error) {
	s.logger.Info("ResolveOrCreate: resolving student for uid=%s", uid)

	existing, err := s.studentRepo.GetByUID(ctx, uid)
	if err == nil {
		if err := s.mergeContact(ctx, existing, contact); err != nil {
			return nil, err
		}
		s.logger.Info("ResolveOrCreate: resolved existing student %s for uid=%s", existing.StudentID, uid)
		return models.FromDomainStudent(existing), nil
	}
	if !errors.Is(err, studentRepo.ErrStudentNotFound) {
		s.logger.Error("ResolveOrCreate: lookup failed for uid=%s: %v", uid, err)
		return nil, fmt.Errorf("%w: ResolveOrCreate - lookup: %v", ErrInternal, err)
	}

	studentID, err := s.allocateStudentID(ctx)
	if err != nil {
		return nil, err
	}

	student := &domain.Student{
		UID:       uid,
		StudentID: studentID,
		Phone:     contact.Phone,
		Name:      contact.Name,
		Age:       &contact.Age,
		Gender:    contact.Gender,
		Status:    domain.StudentPending,
	}
	if contact.Email != nil {
		student.Email = *contact.Email
	}
	if contact.Address != "" {
		student.Address = &contact.Address
	}

	created, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		if errors.Is(err, studentRepo.ErrDuplicateStudent) {
			// Параллельная первая заявка успела раньше, читаем её результат
			s.logger.Warn("ResolveOrCreate: concurrent create for uid=%s, re-reading", uid)
			winner, lookupErr := s.studentRepo.GetByUID(ctx, uid)
			if lookupErr != nil {
				s.logger.Error("ResolveOrCreate: re-read failed for uid=%s: %v", uid, lookupErr)
				return nil, fmt.Errorf("%w: ResolveOrCreate - re-read after duplicate: %v", ErrInternal, lookupErr)
			}
			return models.FromDomainStudent(winner), nil
		}
		s.logger.Error("ResolveOrCreate: create failed for uid=%s: %v", uid, err)
		return nil, fmt.Errorf("%w: ResolveOrCreate - create: %v", ErrInternal, err)
	}

	s.logger.Info("ResolveOrCreate: created student %s for uid=%s", created.StudentID, uid)
	return models.FromDomainStudent(created), nil
}

// GetByUID получает собственный профиль студента
func (s *Service) GetByUID(ctx context.Context, uid string) (*models.StudentResponse, error) {
	student, err := s.studentRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, studentRepo.ErrStudentNotFound) {
			s.logger.Warn("GetByUID: student not found for uid=%s", uid)
			return nil, ErrStudentNotFound
		}
		s.logger.Error("GetByUID: repository error for uid=%s: %v", uid, err)
		return nil, fmt.Errorf("%w: GetByUID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainStudent(student), nil
}

// GetByEmail получает студента по email (восстановление связки после сбоя)
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.StudentResponse, error) {
	student, err := s.studentRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, studentRepo.ErrStudentNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("GetByEmail: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByEmail - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainStudent(student), nil
}

// SearchByStudentID находит студента по читаемому номеру (админский поиск)
func (s *Service) SearchByStudentID(ctx context.Context, studentID string) (*models.StudentResponse, error) {
	s.logger.Info("SearchByStudentID: searching for %s", studentID)

	student, err := s.studentRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, studentRepo.ErrStudentNotFound) {
			s.logger.Warn("SearchByStudentID: student %s not found", studentID)
			return nil, ErrStudentNotFound
		}
		s.logger.Error("SearchByStudentID: repository error for %s: %v", studentID, err)
		return nil, fmt.Errorf("%w: SearchByStudentID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainStudent(student), nil
}

// UpdateProfile обновляет изменяемые поля профиля самим студентом.
// Студенческий номер, статус и сертификат через этот путь не меняются.
func (s *Service) UpdateProfile(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.StudentResponse, error) {
	s.logger.Info("UpdateProfile: updating profile for uid=%s", uid)

	upd, err := s.buildProfileUpdate(req)
	if err != nil {
		s.logger.Warn("UpdateProfile: invalid request for uid=%s: %v", uid, err)
		return nil, err
	}

	if err := s.studentRepo.UpdateProfile(ctx, uid, upd); err != nil {
		if errors.Is(err, studentRepo.ErrStudentNotFound) {
			s.logger.Warn("UpdateProfile: student not found for uid=%s", uid)
			return nil, ErrStudentNotFound
		}
		s.logger.Error("UpdateProfile: repository error for uid=%s: %v", uid, err)
		return nil, fmt.Errorf("%w: UpdateProfile - repository error: %v", ErrInternal, err)
	}

	return s.GetByUID(ctx, uid)
}

// Complete помечает студента завершившим курс: статус completed,
// сертификат и дата завершения. Повторный вызов отклоняется.
func (s *Service) Complete(ctx context.Context, studentID string) (*models.StudentResponse, error) {
	s.logger.Info("Complete: completing course for student %s", studentID)

	student, err := s.studentRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, studentRepo.ErrStudentNotFound) {
			s.logger.Warn("Complete: student %s not found", studentID)
			return nil, ErrStudentNotFound
		}
		s.logger.Error("Complete: repository error for %s: %v", studentID, err)
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	if student.IsCompleted() {
		s.logger.Warn("Complete: student %s already completed", studentID)
		return nil, ErrAlreadyCompleted
	}

	now := s.timeSource.Now()
	certificateID := s.newCertificateID(now)
	certificateLink := fmt.Sprintf("%s/certificate/%s", s.certificateBaseURL, certificateID)

	if err := s.studentRepo.Complete(ctx, studentID, certificateID, certificateLink, now); err != nil {
		s.logger.Error("Complete: repository error for %s: %v", studentID, err)
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Complete: student %s completed, certificate %s", studentID, certificateID)
	return s.SearchByStudentID(ctx, studentID)
}

// mergeContact обновляет только изменившиеся контактные поля
func (s *Service) mergeContact(ctx context.Context, existing *domain.Student, contact models.ContactInfo) error {
	upd := studentRepo.ContactUpdate{}
	changed := false

	if contact.Email != nil && *contact.Email != existing.Email {
		upd.Email = contact.Email
		existing.Email = *contact.Email
		changed = true
	}
	if contact.Phone != "" && contact.Phone != existing.Phone {
		upd.Phone = &contact.Phone
		existing.Phone = contact.Phone
		changed = true
	}
	if contact.Name != "" && contact.Name != existing.Name {
		upd.Name = &contact.Name
		existing.Name = contact.Name
		changed = true
	}
	if existing.Age == nil || contact.Age != *existing.Age {
		upd.Age = &contact.Age
		existing.Age = &contact.Age
		changed = true
	}
	if contact.Address != "" && (existing.Address == nil || contact.Address != *existing.Address) {
		upd.Address = &contact.Address
		existing.Address = &contact.Address
		changed = true
	}

	if !changed {
		return nil
	}

	if err := s.studentRepo.UpdateContact(ctx, existing.UID, upd); err != nil {
		s.logger.Error("mergeContact: failed for uid=%s: %v", existing.UID, err)
		return fmt.Errorf("%w: mergeContact - repository error: %v", ErrInternal, err)
	}
	return nil
}

// allocateStudentID выдает следующий номер вида TS260042: префикс,
// две цифры года и порядковый номер из атомарного счетчика
func (s *Service) allocateStudentID(ctx context.Context) (string, error) {
	yearPrefix := fmt.Sprintf("%s%s", domain.StudentIDPrefix, s.timeSource.Now().Format("06"))

	seq, err := s.studentRepo.NextStudentSequence(ctx, yearPrefix)
	if err != nil {
		s.logger.Error("allocateStudentID: counter error for prefix=%s: %v", yearPrefix, err)
		return "", fmt.Errorf("%w: allocateStudentID - counter error: %v", ErrInternal, err)
	}

	return fmt.Sprintf("%s%0*d", yearPrefix, domain.StudentIDSequenceDigits, seq), nil
}

// newCertificateID формирует ID сертификата вида CERT-2026-A1B2C3D4
func (s *Service) newCertificateID(now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", domain.CertificateIDPrefix, now.Year(), randomSuffix(8))
}

func (s *Service) buildProfileUpdate(req *models.UpdateProfileRequest) (studentRepo.ProfileUpdate, error) {
	upd := studentRepo.ProfileUpdate{
		Phone:            req.Phone,
		Name:             req.Name,
		Gender:           req.Gender,
		Address:          req.Address,
		NID:              req.NID,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		BloodGroup:       req.BloodGroup,
		Occupation:       req.Occupation,
		Education:        req.Education,
		Facebook:         req.Facebook,
		Instagram:        req.Instagram,
		Twitter:          req.Twitter,
		LinkedIn:         req.LinkedIn,
	}

	if req.Age != nil {
		if *req.Age < domain.MinStudentAge || *req.Age > domain.MaxStudentAge {
			return upd, fmt.Errorf("%w: age must be between %d and %d", ErrInvalidInput, domain.MinStudentAge, domain.MaxStudentAge)
		}
		upd.Age = req.Age
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse(domain.DateFormat, *req.DateOfBirth)
		if err != nil {
			return upd, fmt.Errorf("%w: dateOfBirth must be in YYYY-MM-DD format", ErrInvalidInput)
		}
		upd.DateOfBirth = &dob
	}

	return upd, nil
}

// randomSuffix возвращает n верхних hex-символов случайного UUID
func randomSuffix(n int) string {
	hexed := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(hexed[:n])
}
