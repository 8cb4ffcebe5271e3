package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lychee-collector/internal/domain/entity"
	"lychee-collector/internal/domain/port"
)

// SessionService управляет одним активным образцом в памяти и
// связывает ввод оператора, камеры и хранилище. В один момент
// времени редактируется ровно один образец.
type SessionService struct {
	repo    port.SampleRepository
	cameras map[entity.Channel]port.Camera

	mu      sync.Mutex
	current *entity.Sample
}

// NewSessionService создаёт сервис сессии сбора данных.
func NewSessionService(repo port.SampleRepository, cameras map[entity.Channel]port.Camera) *SessionService {
	return &SessionService{
		repo:    repo,
		cameras: cameras,
	}
}

// Current возвращает редактируемый образец, nil до первого NewSample.
func (s *SessionService) Current() *entity.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// NewSample очищает форму и начинает новый образец со следующим
// идентификатором. Подключения камер не трогаются.
// Идентификатор несохранённого текущего образца тоже учитывается:
// брошенный номер пропускается, а не выдаётся повторно.
func (s *SessionService) NewSample(ctx context.Context) (*entity.Sample, error) {
	id, err := s.repo.NextSampleID(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	num, _ := entity.SampleIDNumber(id)
	if s.current != nil {
		if cur, ok := entity.SampleIDNumber(s.current.SampleID); ok && cur >= num {
			num = cur + 1
		}
	}

	s.current = entity.NewSample(entity.FormatSampleID(num))
	return s.current, nil
}

// SetField записывает значение поля текущего образца.
func (s *SessionService) SetField(field entity.Field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return fmt.Errorf("no active sample")
	}
	return s.current.SetField(field, raw)
}

// Save пересчитывает производное соотношение и сохраняет текущий
// образец в оба приёмника. При ошибке образец остаётся в памяти,
// оператор может повторить сохранение.
func (s *SessionService) Save(ctx context.Context) (*entity.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, fmt.Errorf("no active sample")
	}

	s.current.ComputeRatio()
	if s.current.Timestamp == "" {
		s.current.Timestamp = time.Now().Format(time.RFC3339)
	}

	if err := s.repo.Save(ctx, s.current); err != nil {
		return nil, err
	}
	return s.current, nil
}

// Load поднимает сохранённый образец в форму для редактирования.
// Последующий Save перезапишет ту же запись, а не создаст дубликат.
func (s *SessionService) Load(ctx context.Context, sampleID string) (*entity.Sample, error) {
	sample, err := s.repo.Load(ctx, sampleID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sample
	return sample, nil
}

// Delete удаляет сохранённый образец и его изображения.
func (s *SessionService) Delete(ctx context.Context, sampleID string) error {
	return s.repo.Delete(ctx, sampleID)
}

// Connect подключает камеру канала.
func (s *SessionService) Connect(ctx context.Context, channel entity.Channel) error {
	cam, ok := s.cameras[channel]
	if !ok {
		return fmt.Errorf("%w: unknown channel %q", entity.ErrCameraUnavailable, channel)
	}
	return cam.Connect(ctx)
}

// Preview возвращает последний кадр просмотра канала.
func (s *SessionService) Preview(channel entity.Channel) (*entity.Frame, error) {
	cam, ok := s.cameras[channel]
	if !ok {
		return nil, fmt.Errorf("%w: unknown channel %q", entity.ErrCameraUnavailable, channel)
	}
	return cam.PreviewFrame()
}

// Capture снимает полный кадр канала, пишет его на диск под именем
// <sample_id>_<канал>.jpg и запоминает путь в текущем образце.
func (s *SessionService) Capture(ctx context.Context, channel entity.Channel) (string, error) {
	cam, ok := s.cameras[channel]
	if !ok {
		return "", fmt.Errorf("%w: unknown channel %q", entity.ErrCaptureFailed, channel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return "", fmt.Errorf("no active sample")
	}

	frame, err := cam.CaptureFullFrame()
	if err != nil {
		return "", err
	}

	path, err := s.repo.SaveImage(ctx, s.current.SampleID, channel, frame)
	if err != nil {
		return "", err
	}

	switch channel {
	case entity.ChannelRGB:
		s.current.RGBImage = path
	case entity.ChannelNIR:
		s.current.NIRImage = path
	}

	return path, nil
}

// ExportCSV выгружает набор записей в отдельный CSV-файл.
func (s *SessionService) ExportCSV(ctx context.Context, path string) error {
	return s.repo.ExportCSV(ctx, path)
}

// ExportXLSX выгружает набор записей в книгу Excel.
func (s *SessionService) ExportXLSX(ctx context.Context, path string) error {
	return s.repo.ExportXLSX(ctx, path)
}

// Close отключает все камеры.
func (s *SessionService) Close() {
	for _, cam := range s.cameras {
		cam.Disconnect()
	}
}
