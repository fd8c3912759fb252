package interfaces

import (
	"context"
)

// BambuService - это агрегирующий интерфейс ядра: цикл обработки телеметрии
// и инициализация оверлея.
type BambuService interface {
	// InitializeOverlay идемпотентно создает сцену, видеоисточник и все
	// элементы оверлея. До первого успешного вызова сообщения телеметрии
	// отбрасываются с предупреждением.
	InitializeOverlay() error

	// Run запускает цикл диспетчеризации событий транспорта. Блокирует до
	// отмены контекста; ошибки отдельных сообщений не завершают цикл.
	Run(ctx context.Context) error

	// DumpSceneItems логирует настройки видео и всех входов сцены (диагностика).
	DumpSceneItems() error
}
