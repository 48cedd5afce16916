package booking

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
	"github.com/m04kA/DS-BookingService/pkg/types"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникальности
const uniqueViolation = "23505"

const (
	slotConstraint    = "uq_bookings_slot"
	invoiceConstraint = "bookings_invoice_number_key"
)

var bookingColumns = []string{
	"id",
	"user_uid",
	"package_id",
	"selected_date",
	"selected_time",
	"status",
	"phone",
	"email",
	"name",
	"age",
	"gender",
	"why_learning",
	"address",
	"previous_training",
	"assigned_package",
	"fee",
	"total_paid",
	"due",
	"invoice_number",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вставка и есть атомарная проверка занятости слота: частичный уникальный
// индекс uq_bookings_slot на (selected_date, selected_time) для статусов
// pending/confirmed гарантирует, что из двух конкурентных запросов на один
// слот успешной будет ровно одна вставка; проигравший получает ErrSlotTaken.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_uid",
			"package_id",
			"selected_date",
			"selected_time",
			"status",
			"phone",
			"email",
			"name",
			"age",
			"gender",
			"why_learning",
			"address",
			"previous_training",
		).
		Values(
			booking.UserUID,
			booking.PackageID,
			booking.SelectedDate,
			booking.SelectedTime,
			booking.Status,
			booking.Phone,
			booking.Email,
			booking.Name,
			booking.Age,
			booking.Gender,
			booking.WhyLearning,
			booking.Address,
			booking.PreviousTraining,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.Version,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, slotConstraint) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID (без журнала платежей)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListByStatus получает бронирования, опционально фильтруя по статусу
// Сортировка - сначала новые; limit <= 0 означает без ограничения
func (r *Repository) ListByStatus(ctx context.Context, status *domain.BookingStatus, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}
	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStatus - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStatus - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByUserUID получает бронирования пользователя, сначала новые
func (r *Repository) GetByUserUID(ctx context.Context, uid string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_uid": uid}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserUID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserUID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountActiveByDate подсчитывает pending/confirmed бронирования по датам
// в диапазоне [start, end]; ключ карты - дата в формате YYYY-MM-DD
func (r *Repository) CountActiveByDate(ctx context.Context, start, end time.Time) (map[string]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("selected_date", "COUNT(*)").
		From("bookings").
		Where(squirrel.GtOrEq{"selected_date": start}).
		Where(squirrel.LtOrEq{"selected_date": end}).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		GroupBy("selected_date").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var date time.Time
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveByDate - scan row: %v", ErrScanRow, err)
		}
		counts[date.Format(domain.DateFormat)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// GetActiveTimesByDate получает занятые слоты (pending/confirmed) на дату
func (r *Repository) GetActiveTimesByDate(ctx context.Context, date time.Time) ([]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("selected_time").
		From("bookings").
		Where(squirrel.Eq{"selected_date": date}).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		OrderBy("selected_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveTimesByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveTimesByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	times := make([]types.TimeString, 0)
	for rows.Next() {
		var t types.TimeString
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%w: GetActiveTimesByDate - scan row: %v", ErrScanRow, err)
		}
		times = append(times, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveTimesByDate - rows error: %v", ErrScanRow, err)
	}

	return times, nil
}

// UpdateDecision применяет решение администратора (confirm/reject)
// Условное обновление по version: проигравшая конкурентная мутация
// получает ErrVersionConflict вместо молчаливой перезаписи
func (r *Repository) UpdateDecision(ctx context.Context, id int64, version int, upd DecisionUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", upd.Status).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "version": version})

	if upd.AssignedPackage != nil {
		updateBuilder = updateBuilder.Set("assigned_package", *upd.AssignedPackage)
	}
	if upd.Fee != nil {
		updateBuilder = updateBuilder.Set("fee", *upd.Fee)
	}
	if upd.TotalPaid != nil {
		updateBuilder = updateBuilder.Set("total_paid", *upd.TotalPaid)
	}
	if upd.Due != nil {
		updateBuilder = updateBuilder.Set("due", *upd.Due)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "UpdateDecision")
}

// UpdateFees обновляет финансовые поля бронирования (условно по version)
func (r *Repository) UpdateFees(ctx context.Context, id int64, version int, upd FeesUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("total_paid", upd.TotalPaid).
		Set("due", upd.Due).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "version": version})

	if upd.Fee != nil {
		updateBuilder = updateBuilder.Set("fee", *upd.Fee)
	}
	if upd.InvoiceNumber != nil {
		updateBuilder = updateBuilder.Set("invoice_number", *upd.InvoiceNumber)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateFees - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, invoiceConstraint) {
			return ErrDuplicateInvoice
		}
		return fmt.Errorf("%w: UpdateFees - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "UpdateFees")
}

// AddPayment добавляет запись в журнал платежей (append-only)
func (r *Repository) AddPayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_payments").
		Columns("booking_id", "amount", "paid_at", "method", "notes").
		Values(payment.BookingID, payment.Amount, payment.PaidAt, payment.Method, payment.Notes).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddPayment - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&payment.ID); err != nil {
		return nil, fmt.Errorf("%w: AddPayment - execute insert: %v", ErrExecQuery, err)
	}

	return payment, nil
}

// ListPayments получает журнал платежей бронирования в порядке внесения
func (r *Repository) ListPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "amount", "paid_at", "method", "notes").
		From("booking_payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("paid_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPayments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPayments - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.PaidAt, &p.Method, &p.Notes); err != nil {
			return nil, fmt.Errorf("%w: ListPayments - scan row: %v", ErrScanRow, err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPayments - rows error: %v", ErrScanRow, err)
	}

	return payments, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserUID,
		&booking.PackageID,
		&booking.SelectedDate,
		&booking.SelectedTime,
		&booking.Status,
		&booking.Phone,
		&booking.Email,
		&booking.Name,
		&booking.Age,
		&booking.Gender,
		&booking.WhyLearning,
		&booking.Address,
		&booking.PreviousTraining,
		&booking.AssignedPackage,
		&booking.Fee,
		&booking.TotalPaid,
		&booking.Due,
		&booking.InvoiceNumber,
		&booking.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func checkAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
