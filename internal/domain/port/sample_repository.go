package port

import (
	"context"

	"lychee-collector/internal/domain/entity"
)

// SampleRepository интерфейс хранилища образцов
type SampleRepository interface {
	// Save добавляет или обновляет образец в обоих приёмниках (CSV и JSON)
	Save(ctx context.Context, sample *entity.Sample) error

	// Load возвращает образец по идентификатору,
	// entity.ErrSampleNotFound если его нет
	Load(ctx context.Context, sampleID string) (*entity.Sample, error)

	// All возвращает все сохранённые образцы в порядке хранения
	All(ctx context.Context) ([]*entity.Sample, error)

	// Delete удаляет образец и его файлы изображений
	Delete(ctx context.Context, sampleID string) error

	// NextSampleID возвращает следующий свободный идентификатор
	NextSampleID(ctx context.Context) (string, error)

	// SaveImage записывает кадр канала на диск и возвращает путь,
	// который нужно сохранить в записи образца
	SaveImage(ctx context.Context, sampleID string, channel entity.Channel, frame *entity.Frame) (string, error)

	// ExportCSV выгружает текущий набор записей в отдельный CSV-файл,
	// не меняя основные приёмники
	ExportCSV(ctx context.Context, path string) error

	// ExportXLSX выгружает текущий набор записей в книгу Excel
	ExportXLSX(ctx context.Context, path string) error
}
