package booking

import (
	"context"
	"database/sql"

	"github.com/m04kA/DS-BookingService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TxBeginner интерфейс для начала транзакций
// Поддерживает *sql.DB и *dbmetrics.DB
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}

// DecisionUpdate поля, изменяемые при решении администратора по заявке
type DecisionUpdate struct {
	Status          string
	AssignedPackage *string
	Fee             *float64
	TotalPaid       *float64
	Due             *float64
}

// FeesUpdate поля, изменяемые при редактировании оплаты
type FeesUpdate struct {
	Fee           *float64
	TotalPaid     float64
	Due           float64
	InvoiceNumber *string
}
