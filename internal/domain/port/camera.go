package port

import (
	"context"

	"lychee-collector/internal/domain/entity"
)

// Camera интерфейс одного канала съёмки
type Camera interface {
	// Connect открывает устройство по индексу канала
	Connect(ctx context.Context) error

	// Connected сообщает, открыто ли устройство
	Connected() bool

	// PreviewFrame возвращает последний кадр в уменьшенном размере
	// для живого просмотра; nil без ошибки означает "кадра пока нет"
	PreviewFrame() (*entity.Frame, error)

	// CaptureFullFrame снимает один кадр в родном разрешении камеры
	CaptureFullFrame() (*entity.Frame, error)

	// Disconnect освобождает устройство; повторный вызов безопасен
	Disconnect()
}
