package models

import (
	"time"

	"github.com/m04kA/DS-BookingService/internal/domain"
)

// Request модели

// ContactInfo контактный снимок из заявки на бронирование,
// используется при создании или сверке записи студента
type ContactInfo struct {
	Email   *string
	Phone   string
	Name    string
	Age     int
	Gender  string
	Address string
}

// UpdateProfileRequest запрос студента на обновление своего профиля
type UpdateProfileRequest struct {
	Phone            *string `json:"phone,omitempty"`
	Name             *string `json:"name,omitempty"`
	Age              *int    `json:"age,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	Address          *string `json:"address,omitempty"`
	DateOfBirth      *string `json:"dateOfBirth,omitempty"` // "2006-01-02"
	NID              *string `json:"nid,omitempty"`
	EmergencyContact *string `json:"emergencyContact,omitempty"`
	EmergencyPhone   *string `json:"emergencyPhone,omitempty"`
	BloodGroup       *string `json:"bloodGroup,omitempty"`
	Occupation       *string `json:"occupation,omitempty"`
	Education        *string `json:"education,omitempty"`
	Facebook         *string `json:"facebook,omitempty"`
	Instagram        *string `json:"instagram,omitempty"`
	Twitter          *string `json:"twitter,omitempty"`
	LinkedIn         *string `json:"linkedin,omitempty"`
}

// Response модели

// StudentResponse ответ с данными студента
type StudentResponse struct {
	StudentID string  `json:"studentId"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Name      string  `json:"name"`
	Age       *int    `json:"age,omitempty"`
	Gender    string  `json:"gender"`
	Address   *string `json:"address,omitempty"`
	Status    string  `json:"status"`

	DateOfBirth      *string `json:"dateOfBirth,omitempty"`
	NID              *string `json:"nid,omitempty"`
	EmergencyContact *string `json:"emergencyContact,omitempty"`
	EmergencyPhone   *string `json:"emergencyPhone,omitempty"`
	BloodGroup       *string `json:"bloodGroup,omitempty"`
	Occupation       *string `json:"occupation,omitempty"`
	Education        *string `json:"education,omitempty"`
	Facebook         *string `json:"facebook,omitempty"`
	Instagram        *string `json:"instagram,omitempty"`
	Twitter          *string `json:"twitter,omitempty"`
	LinkedIn         *string `json:"linkedin,omitempty"`

	CertificateID   *string `json:"certificateId,omitempty"`
	CertificateLink *string `json:"certificateLink,omitempty"`
	CompletionDate  *string `json:"completionDate,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainStudent конвертирует domain модель в DTO
func FromDomainStudent(s *domain.Student) *StudentResponse {
	if s == nil {
		return nil
	}

	resp := &StudentResponse{
		StudentID:        s.StudentID,
		Email:            s.Email,
		Phone:            s.Phone,
		Name:             s.Name,
		Age:              s.Age,
		Gender:           s.Gender,
		Address:          s.Address,
		Status:           string(s.Status),
		NID:              s.NID,
		EmergencyContact: s.EmergencyContact,
		EmergencyPhone:   s.EmergencyPhone,
		BloodGroup:       s.BloodGroup,
		Occupation:       s.Occupation,
		Education:        s.Education,
		Facebook:         s.Facebook,
		Instagram:        s.Instagram,
		Twitter:          s.Twitter,
		LinkedIn:         s.LinkedIn,
		CertificateID:    s.CertificateID,
		CertificateLink:  s.CertificateLink,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}

	if s.DateOfBirth != nil {
		dob := s.DateOfBirth.Format(domain.DateFormat)
		resp.DateOfBirth = &dob
	}
	if s.CompletionDate != nil {
		completed := s.CompletionDate.Format(time.RFC3339)
		resp.CompletionDate = &completed
	}

	return resp
}
