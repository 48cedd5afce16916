package domain

import "time"

// StudentStatus represents overall enrollment progress, independent of any
// single booking's status
type StudentStatus string

const (
	StudentPending   StudentStatus = "pending"
	StudentApproved  StudentStatus = "approved"
	StudentCompleted StudentStatus = "completed"
)

// Student represents a durable student record linked 1:1 to an authenticated
// principal. Created lazily on first successful booking admission.
type Student struct {
	ID        int64
	UID       string // authenticated principal id
	StudentID string // human-readable id, e.g. TS260042, immutable once set
	Email     string
	Phone     string
	Name      string
	Age       *int
	Gender    string
	Address   *string
	Status    StudentStatus

	// Extended profile, filled in by the student later
	DateOfBirth      *time.Time
	NID              *string
	EmergencyContact *string
	EmergencyPhone   *string
	BloodGroup       *string
	Occupation       *string
	Education        *string
	Facebook         *string
	Instagram        *string
	Twitter          *string
	LinkedIn         *string

	// Certificate fields, stamped by the admin completion action
	CertificateID   *string
	CertificateLink *string
	CompletionDate  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCompleted returns true if the student finished the course
func (s *Student) IsCompleted() bool {
	return s.Status == StudentCompleted
}
