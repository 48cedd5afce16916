package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/DS-BookingService/internal/domain"
	"github.com/m04kA/DS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DS-BookingService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникальности
const uniqueViolation = "23505"

var studentColumns = []string{
	"id",
	"uid",
	"student_id",
	"email",
	"phone",
	"name",
	"age",
	"gender",
	"address",
	"status",
	"date_of_birth",
	"nid",
	"emergency_contact",
	"emergency_phone",
	"blood_group",
	"occupation",
	"education",
	"facebook",
	"instagram",
	"twitter",
	"linkedin",
	"certificate_id",
	"certificate_link",
	"completion_date",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со студентами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория студентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByUID получает студента по идентификатору принципала
func (r *Repository) GetByUID(ctx context.Context, uid string) (*domain.Student, error) {
	return r.getByField(ctx, "uid", uid, "GetByUID")
}

// GetByEmail получает студента по email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	return r.getByField(ctx, "email", email, "GetByEmail")
}

// GetByStudentID получает студента по читаемому номеру (например, TS260042)
func (r *Repository) GetByStudentID(ctx context.Context, studentID string) (*domain.Student, error) {
	return r.getByField(ctx, "student_id", studentID, "GetByStudentID")
}

func (r *Repository) getByField(ctx context.Context, field, value, op string) (*domain.Student, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{field: value}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	student, err := r.scanStudent(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan student: %v", ErrScanRow, op, err)
	}

	return student, nil
}

// Create создает запись студента. Уникальность uid и student_id
// обеспечивается ограничениями схемы; конкурентный дубликат получает
// ErrDuplicateStudent и должен перечитать запись по uid.
func (r *Repository) Create(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("students").
		Columns("uid", "student_id", "email", "phone", "name", "age", "gender", "address", "status").
		Values(
			student.UID,
			student.StudentID,
			student.Email,
			student.Phone,
			student.Name,
			student.Age,
			student.Gender,
			student.Address,
			student.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&student.ID, &createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateStudent
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	student.CreatedAt = createdAt.Time
	student.UpdatedAt = updatedAt.Time

	return student, nil
}

// UpdateContact обновляет контактные данные студента (nil-поля не трогаются)
func (r *Repository) UpdateContact(ctx context.Context, uid string, upd ContactUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("students").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"uid": uid})

	if upd.Email != nil {
		updateBuilder = updateBuilder.Set("email", *upd.Email)
	}
	if upd.Phone != nil {
		updateBuilder = updateBuilder.Set("phone", *upd.Phone)
	}
	if upd.Name != nil {
		updateBuilder = updateBuilder.Set("name", *upd.Name)
	}
	if upd.Age != nil {
		updateBuilder = updateBuilder.Set("age", *upd.Age)
	}
	if upd.Gender != nil {
		updateBuilder = updateBuilder.Set("gender", *upd.Gender)
	}
	if upd.Address != nil {
		updateBuilder = updateBuilder.Set("address", *upd.Address)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateContact - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateContact - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "UpdateContact")
}

// UpdateProfile обновляет расширенный профиль студента (nil-поля не трогаются)
func (r *Repository) UpdateProfile(ctx context.Context, uid string, upd ProfileUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("students").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"uid": uid})

	for column, value := range profileColumns(upd) {
		updateBuilder = updateBuilder.Set(column, value)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateProfile - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateProfile - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "UpdateProfile")
}

// Complete помечает студента завершившим курс и проставляет сертификат
func (r *Repository) Complete(ctx context.Context, studentID, certificateID, certificateLink string, completedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("students").
		Set("status", domain.StudentCompleted).
		Set("certificate_id", certificateID).
		Set("certificate_link", certificateLink).
		Set("completion_date", completedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Complete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Complete - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Complete")
}

// NextStudentSequence атомарно выдает следующий порядковый номер для
// годового префикса. Одна команда INSERT ... ON CONFLICT DO UPDATE,
// конкурентные вызовы сериализуются на строке счетчика.
func (r *Repository) NextStudentSequence(ctx context.Context, yearPrefix string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query := `
		INSERT INTO student_id_counters (year_prefix, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (year_prefix) DO UPDATE SET last_seq = student_id_counters.last_seq + 1
		RETURNING last_seq`

	var seq int
	if err := executor.QueryRowContext(ctx, query, yearPrefix).Scan(&seq); err != nil {
		return 0, fmt.Errorf("%w: NextStudentSequence - execute upsert: %v", ErrExecQuery, err)
	}

	return seq, nil
}

func (r *Repository) scanStudent(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Student, error) {
	var student domain.Student
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&student.ID,
		&student.UID,
		&student.StudentID,
		&student.Email,
		&student.Phone,
		&student.Name,
		&student.Age,
		&student.Gender,
		&student.Address,
		&student.Status,
		&student.DateOfBirth,
		&student.NID,
		&student.EmergencyContact,
		&student.EmergencyPhone,
		&student.BloodGroup,
		&student.Occupation,
		&student.Education,
		&student.Facebook,
		&student.Instagram,
		&student.Twitter,
		&student.LinkedIn,
		&student.CertificateID,
		&student.CertificateLink,
		&student.CompletionDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	student.CreatedAt = createdAt.Time
	student.UpdatedAt = updatedAt.Time

	return &student, nil
}

func profileColumns(upd ProfileUpdate) map[string]interface{} {
	columns := make(map[string]interface{})

	if upd.Phone != nil {
		columns["phone"] = *upd.Phone
	}
	if upd.Name != nil {
		columns["name"] = *upd.Name
	}
	if upd.Age != nil {
		columns["age"] = *upd.Age
	}
	if upd.Gender != nil {
		columns["gender"] = *upd.Gender
	}
	if upd.Address != nil {
		columns["address"] = *upd.Address
	}
	if upd.DateOfBirth != nil {
		columns["date_of_birth"] = *upd.DateOfBirth
	}
	if upd.NID != nil {
		columns["nid"] = *upd.NID
	}
	if upd.EmergencyContact != nil {
		columns["emergency_contact"] = *upd.EmergencyContact
	}
	if upd.EmergencyPhone != nil {
		columns["emergency_phone"] = *upd.EmergencyPhone
	}
	if upd.BloodGroup != nil {
		columns["blood_group"] = *upd.BloodGroup
	}
	if upd.Occupation != nil {
		columns["occupation"] = *upd.Occupation
	}
	if upd.Education != nil {
		columns["education"] = *upd.Education
	}
	if upd.Facebook != nil {
		columns["facebook"] = *upd.Facebook
	}
	if upd.Instagram != nil {
		columns["instagram"] = *upd.Instagram
	}
	if upd.Twitter != nil {
		columns["twitter"] = *upd.Twitter
	}
	if upd.LinkedIn != nil {
		columns["linkedin"] = *upd.LinkedIn
	}

	return columns
}

func checkAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
