package interfaces

import (
	"context"

	"github.com/iwtcode/bambuService/internal/domain/models"
)

// PrinterTransport определяет контракт транспорта телеметрии принтера.
// Все события (сообщения, подключение, обрыв) поступают в единый канал.
type PrinterTransport interface {
	Connect() error
	Disconnect()
	IsConnected() bool
	Events() <-chan models.PrinterEvent
	PublishCommand(payload []byte) error
}

// TelemetryPublisher определяет контракт для отправки нормализованной
// телеметрии во внешние системы.
type TelemetryPublisher interface {
	Produce(ctx context.Context, key, value []byte) error
	Close() error
}
