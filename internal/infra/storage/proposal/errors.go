package proposal

import "errors"

var (
	// ErrProposalNotFound возвращается, когда предложение не найдено
	ErrProposalNotFound = errors.New("proposal.repository: proposal not found")

	// ErrStatusConflict возвращается, когда текущий статус предложения
	// не совпал с ожидаемым
	ErrStatusConflict = errors.New("proposal.repository: proposal status conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("proposal.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("proposal.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("proposal.repository: failed to scan row")
)
