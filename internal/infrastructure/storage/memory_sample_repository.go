package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"lychee-collector/internal/domain/entity"
	"lychee-collector/internal/domain/port"
)

// MemorySampleRepository in-memory хранилище образцов для тестов
// и работы без файловой системы
type MemorySampleRepository struct {
	mu      sync.RWMutex
	order   []string
	samples map[string]*entity.Sample
	images  map[string][]byte
}

// NewMemorySampleRepository создаёт новое in-memory хранилище
func NewMemorySampleRepository() *MemorySampleRepository {
	return &MemorySampleRepository{
		samples: make(map[string]*entity.Sample),
		images:  make(map[string][]byte),
	}
}

// Save добавляет или обновляет образец
func (r *MemorySampleRepository) Save(ctx context.Context, sample *entity.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.samples[sample.SampleID]; !exists {
		r.order = append(r.order, sample.SampleID)
	}
	copied := *sample
	r.samples[sample.SampleID] = &copied

	return nil
}

// Load возвращает образец по идентификатору
func (r *MemorySampleRepository) Load(ctx context.Context, sampleID string) (*entity.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sample, exists := r.samples[sampleID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entity.ErrSampleNotFound, sampleID)
	}

	copied := *sample
	return &copied, nil
}

// All возвращает все образцы в порядке добавления
func (r *MemorySampleRepository) All(ctx context.Context) ([]*entity.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	samples := make([]*entity.Sample, 0, len(r.order))
	for _, id := range r.order {
		copied := *r.samples[id]
		samples = append(samples, &copied)
	}

	return samples, nil
}

// Delete удаляет образец
func (r *MemorySampleRepository) Delete(ctx context.Context, sampleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.samples[sampleID]; !exists {
		return fmt.Errorf("%w: %s", entity.ErrSampleNotFound, sampleID)
	}

	delete(r.samples, sampleID)
	for i, id := range r.order {
		if id == sampleID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

// NextSampleID возвращает следующий свободный идентификатор
func (r *MemorySampleRepository) NextSampleID(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return entity.NextSampleID(r.order), nil
}

// SaveImage запоминает кадр в памяти и возвращает условный путь
func (r *MemorySampleRepository) SaveImage(ctx context.Context, sampleID string, channel entity.Channel, frame *entity.Frame) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := filepath.Join("images", string(channel), fmt.Sprintf("%s_%s.jpg", sampleID, channel))
	r.images[path] = frame.Data

	return path, nil
}

// ExportCSV не поддерживается in-memory хранилищем
func (r *MemorySampleRepository) ExportCSV(ctx context.Context, path string) error {
	return fmt.Errorf("%w: export is not supported by memory repository", entity.ErrStorageWrite)
}

// ExportXLSX не поддерживается in-memory хранилищем
func (r *MemorySampleRepository) ExportXLSX(ctx context.Context, path string) error {
	return fmt.Errorf("%w: export is not supported by memory repository", entity.ErrStorageWrite)
}

// Проверка реализации интерфейса
var _ port.SampleRepository = (*MemorySampleRepository)(nil)
