package usecases

import "github.com/iwtcode/bambuService/internal/interfaces"

// UseCases - агрегатор всех use case интерфейсов
type UseCases struct {
	interfaces.Usecases
}

// NewUsecases - конструктор для UseCases
func NewUsecases(
	files interfaces.FileStore,
	transport interfaces.PrinterTransport,
	repo interfaces.PrintJobRepository,
) interfaces.Usecases {
	return NewUsecase(files, transport, repo)
}
