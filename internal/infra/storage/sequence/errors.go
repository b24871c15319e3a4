package sequence

import "errors"

var (
	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("sequence.repository: failed to execute query")
)
