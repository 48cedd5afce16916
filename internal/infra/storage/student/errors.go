package student

import "errors"

var (
	// ErrStudentNotFound возвращается, когда студент не найден
	ErrStudentNotFound = errors.New("student.repository: student not found")

	// ErrDuplicateStudent возвращается, когда запись с таким uid или
	// student_id уже существует (конкурентное создание)
	ErrDuplicateStudent = errors.New("student.repository: student already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("student.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("student.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("student.repository: failed to scan row")
)
