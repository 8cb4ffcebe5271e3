package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"lychee-collector/internal/domain/entity"
	"lychee-collector/internal/domain/port"
)

const (
	csvFileName  = "metadata_extended.csv"
	jsonFileName = "samples_backup.json"
)

// FileSampleRepository хранилище образцов на файловой системе:
// CSV-таблица плюс полная JSON-копия, обновляемые вместе.
// Записи сериализуются общим мьютексом, файлы заменяются атомарно
// через временный файл и rename.
type FileSampleRepository struct {
	mu       sync.Mutex
	dataDir  string
	csvPath  string
	jsonPath string
}

// NewFileSampleRepository создаёт хранилище и каталоги под данные.
func NewFileSampleRepository(dataDir string) (*FileSampleRepository, error) {
	repo := &FileSampleRepository{
		dataDir:  dataDir,
		csvPath:  filepath.Join(dataDir, csvFileName),
		jsonPath: filepath.Join(dataDir, jsonFileName),
	}

	for _, dir := range []string{
		dataDir,
		repo.imageDir(entity.ChannelRGB),
		repo.imageDir(entity.ChannelNIR),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return repo, nil
}

func (r *FileSampleRepository) imageDir(channel entity.Channel) string {
	return filepath.Join(r.dataDir, "images", string(channel))
}

// Save добавляет или обновляет образец в CSV и JSON.
func (r *FileSampleRepository) Save(ctx context.Context, sample *entity.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	samples, err := r.readAll()
	if err != nil {
		return err
	}

	samples = upsert(samples, sample)

	if err := writeCSV(r.csvPath, samples); err != nil {
		return fmt.Errorf("%w: csv: %s", entity.ErrStorageWrite, err)
	}
	if err := writeJSON(r.jsonPath, samples); err != nil {
		return fmt.Errorf("%w: json: %s", entity.ErrStorageWrite, err)
	}

	return nil
}

// Load возвращает образец по идентификатору.
func (r *FileSampleRepository) Load(ctx context.Context, sampleID string) (*entity.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	samples, err := r.readAll()
	if err != nil {
		return nil, err
	}

	for _, s := range samples {
		if s.SampleID == sampleID {
			return s, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", entity.ErrSampleNotFound, sampleID)
}

// All возвращает все сохранённые образцы в порядке хранения.
func (r *FileSampleRepository) All(ctx context.Context) ([]*entity.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.readAll()
}

// Delete удаляет образец из обоих приёмников вместе с его
// файлами изображений.
func (r *FileSampleRepository) Delete(ctx context.Context, sampleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	samples, err := r.readAll()
	if err != nil {
		return err
	}

	var target *entity.Sample
	kept := make([]*entity.Sample, 0, len(samples))
	for _, s := range samples {
		if s.SampleID == sampleID {
			target = s
			continue
		}
		kept = append(kept, s)
	}
	if target == nil {
		return fmt.Errorf("%w: %s", entity.ErrSampleNotFound, sampleID)
	}

	if err := writeCSV(r.csvPath, kept); err != nil {
		return fmt.Errorf("%w: csv: %s", entity.ErrStorageWrite, err)
	}
	if err := writeJSON(r.jsonPath, kept); err != nil {
		return fmt.Errorf("%w: json: %s", entity.ErrStorageWrite, err)
	}

	for _, image := range []string{target.RGBImage, target.NIRImage} {
		if image == "" {
			continue
		}
		// Файлы изображений вторичны: запись уже удалена.
		_ = os.Remove(filepath.Join(r.dataDir, image))
	}

	return nil
}

// NextSampleID возвращает следующий свободный идентификатор по
// сохранённому набору, включая записи прошлых сессий.
func (r *FileSampleRepository) NextSampleID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	samples, err := r.readAll()
	if err != nil {
		return "", err
	}

	ids := make([]string, 0, len(samples))
	for _, s := range samples {
		ids = append(ids, s.SampleID)
	}

	return entity.NextSampleID(ids), nil
}

// SaveImage записывает JPEG-кадр в каталог канала и возвращает путь
// относительно каталога данных.
func (r *FileSampleRepository) SaveImage(ctx context.Context, sampleID string, channel entity.Channel, frame *entity.Frame) (string, error) {
	name := fmt.Sprintf("%s_%s.jpg", sampleID, channel)
	relPath := filepath.Join("images", string(channel), name)

	if err := os.WriteFile(filepath.Join(r.dataDir, relPath), frame.Data, 0o644); err != nil {
		return "", fmt.Errorf("%w: image: %s", entity.ErrStorageWrite, err)
	}

	return relPath, nil
}

// ExportCSV выгружает текущий набор записей в отдельный CSV-файл.
// Основные приёмники не меняются; одинаковый набор записей даёт
// байт-в-байт одинаковый результат.
func (r *FileSampleRepository) ExportCSV(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	samples, err := r.readAll()
	if err != nil {
		return err
	}

	if err := writeCSV(path, samples); err != nil {
		return fmt.Errorf("%w: export: %s", entity.ErrStorageWrite, err)
	}
	return nil
}

// ExportXLSX выгружает текущий набор записей в книгу Excel.
func (r *FileSampleRepository) ExportXLSX(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	samples, err := r.readAll()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, 0, len(entity.CSVHeader()))
	for _, col := range entity.CSVHeader() {
		header = append(header, col)
	}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		return fmt.Errorf("%w: xlsx: %s", entity.ErrStorageWrite, err)
	}

	for i, s := range samples {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: xlsx: %s", entity.ErrStorageWrite, err)
		}
		row := xlsxRow(s)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			return fmt.Errorf("%w: xlsx: %s", entity.ErrStorageWrite, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: xlsx: %s", entity.ErrStorageWrite, err)
	}
	return nil
}

// readAll читает набор записей. JSON-копия первична, так как хранит
// типы значений; при её отсутствии набор восстанавливается из CSV.
func (r *FileSampleRepository) readAll() ([]*entity.Sample, error) {
	if data, err := os.ReadFile(r.jsonPath); err == nil {
		var samples []*entity.Sample
		if err := json.Unmarshal(data, &samples); err != nil {
			return nil, fmt.Errorf("parse %s: %w", jsonFileName, err)
		}
		return samples, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", jsonFileName, err)
	}

	return r.readAllCSV()
}

func (r *FileSampleRepository) readAllCSV() ([]*entity.Sample, error) {
	file, err := os.Open(r.csvPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", csvFileName, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", csvFileName, err)
	}

	var samples []*entity.Sample
	for i, record := range records {
		if i == 0 {
			continue // заголовок
		}
		sample, err := entity.SampleFromCSVRecord(record)
		if err != nil {
			return nil, fmt.Errorf("parse %s row %d: %w", csvFileName, i+1, err)
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

func upsert(samples []*entity.Sample, sample *entity.Sample) []*entity.Sample {
	for i, s := range samples {
		if s.SampleID == sample.SampleID {
			samples[i] = sample
			return samples
		}
	}
	return append(samples, sample)
}

// writeCSV пишет полный набор во временный файл и атомарно заменяет
// целевой, чтобы сбой в середине записи не испортил прежние строки.
func writeCSV(path string, samples []*entity.Sample) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "csv-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(entity.CSVHeader()); err != nil {
		tmp.Close()
		return err
	}
	for _, s := range samples {
		if err := w.Write(s.CSVRecord()); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func writeJSON(path string, samples []*entity.Sample) error {
	if samples == nil {
		samples = []*entity.Sample{}
	}

	data, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "json-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func xlsxRow(s *entity.Sample) []interface{} {
	row := make([]interface{}, 0, 11)
	row = append(row, s.SampleID, s.LycheeVariation)
	if s.DaysAfterPicked != nil {
		row = append(row, *s.DaysAfterPicked)
	} else {
		row = append(row, "")
	}
	for _, v := range []*float64{s.SugarContent, s.AcidContent, s.PH, s.SugarAcidRatio} {
		if v != nil {
			row = append(row, *v)
		} else {
			row = append(row, "")
		}
	}
	row = append(row, s.Notes, s.Timestamp, s.RGBImage, s.NIRImage)
	return row
}

// Проверка реализации интерфейса
var _ port.SampleRepository = (*FileSampleRepository)(nil)
