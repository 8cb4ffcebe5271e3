package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Variation сорт личи из закрытого списка
type Variation string

const (
	VariationNMZ Variation = "NMZ"
	VariationGW  Variation = "GW"
	VariationFZX Variation = "FZX"
)

// Variations возвращает все допустимые сорта.
func Variations() []Variation {
	return []Variation{VariationNMZ, VariationGW, VariationFZX}
}

// Valid проверяет, что сорт входит в допустимый список.
func (v Variation) Valid() bool {
	switch v {
	case VariationNMZ, VariationGW, VariationFZX:
		return true
	}
	return false
}

// Sample представляет один образец личи со всеми измерениями.
// Числовые поля опциональны: nil означает "не измерено".
type Sample struct {
	SampleID        string   `json:"sample_id"`
	LycheeVariation string   `json:"lychee_variation"`
	DaysAfterPicked *int     `json:"days_after_picked"`
	SugarContent    *float64 `json:"sugar_content"`
	AcidContent     *float64 `json:"acid_content"`
	PH              *float64 `json:"pH"`
	SugarAcidRatio  *float64 `json:"sugar_acid_ratio"`
	Notes           string   `json:"notes"`
	Timestamp       string   `json:"timestamp"`
	RGBImage        string   `json:"rgb_image"`
	NIRImage        string   `json:"nir_image"`
}

// NewSample создаёт пустой образец с идентификатором и временной меткой.
func NewSample(sampleID string) *Sample {
	return &Sample{
		SampleID:  sampleID,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// ComputeRatio пересчитывает соотношение сахар/кислота.
// Результат округляется до двух знаков; если одно из значений
// отсутствует или кислота равна нулю, соотношение сбрасывается.
func (s *Sample) ComputeRatio() {
	if s.SugarContent == nil || s.AcidContent == nil || *s.AcidContent == 0 {
		s.SugarAcidRatio = nil
		return
	}
	ratio := math.Round(*s.SugarContent / *s.AcidContent * 100) / 100
	s.SugarAcidRatio = &ratio
}

// CSVHeader возвращает фиксированный порядок колонок CSV.
func CSVHeader() []string {
	return []string{
		"sample_id", "lychee_variation", "days_after_picked",
		"sugar_content", "acid_content", "pH", "sugar_acid_ratio",
		"notes", "timestamp", "rgb_image", "nir_image",
	}
}

// CSVRecord сериализует образец в строку CSV; отсутствующие
// значения отдаются пустой строкой.
func (s *Sample) CSVRecord() []string {
	return []string{
		s.SampleID,
		s.LycheeVariation,
		formatInt(s.DaysAfterPicked),
		formatFloat(s.SugarContent),
		formatFloat(s.AcidContent),
		formatFloat(s.PH),
		formatFloat(s.SugarAcidRatio),
		s.Notes,
		s.Timestamp,
		s.RGBImage,
		s.NIRImage,
	}
}

// SampleFromCSVRecord восстанавливает образец из строки CSV.
func SampleFromCSVRecord(record []string) (*Sample, error) {
	if len(record) != len(CSVHeader()) {
		return nil, fmt.Errorf("csv record has %d columns, want %d", len(record), len(CSVHeader()))
	}

	sample := &Sample{
		SampleID:        record[0],
		LycheeVariation: record[1],
		Notes:           record[7],
		Timestamp:       record[8],
		RGBImage:        record[9],
		NIRImage:        record[10],
	}

	var err error
	if sample.DaysAfterPicked, err = parseInt(record[2]); err != nil {
		return nil, fmt.Errorf("days_after_picked: %w", err)
	}
	if sample.SugarContent, err = parseFloat(record[3]); err != nil {
		return nil, fmt.Errorf("sugar_content: %w", err)
	}
	if sample.AcidContent, err = parseFloat(record[4]); err != nil {
		return nil, fmt.Errorf("acid_content: %w", err)
	}
	if sample.PH, err = parseFloat(record[5]); err != nil {
		return nil, fmt.Errorf("pH: %w", err)
	}
	if sample.SugarAcidRatio, err = parseFloat(record[6]); err != nil {
		return nil, fmt.Errorf("sugar_acid_ratio: %w", err)
	}

	return sample, nil
}

// MissingFields возвращает список незаполненных опциональных полей.
func (s *Sample) MissingFields() []string {
	missing := make([]string, 0, 5)
	if s.SugarContent == nil {
		missing = append(missing, "sugar_content")
	}
	if s.AcidContent == nil {
		missing = append(missing, "acid_content")
	}
	if s.PH == nil {
		missing = append(missing, "pH")
	}
	if s.RGBImage == "" {
		missing = append(missing, "rgb_image")
	}
	if s.NIRImage == "" {
		missing = append(missing, "nir_image")
	}
	return missing
}

// IsComplete проверяет, что заполнены базовые поля образца.
func (s *Sample) IsComplete() bool {
	return s.SampleID != "" && s.LycheeVariation != "" && s.DaysAfterPicked != nil
}

// ValidationErrors возвращает список рекомендательных замечаний.
// Замечания не блокируют сохранение.
func (s *Sample) ValidationErrors() []string {
	var errs []string
	if s.LycheeVariation == "" {
		errs = append(errs, "lychee variation is not set")
	}
	if s.DaysAfterPicked == nil {
		errs = append(errs, "days after picked is not set")
	}
	return errs
}

const (
	sampleIDPrefix   = "sample_"
	sampleIDPadWidth = 3
)

// NextSampleID возвращает следующий свободный идентификатор по
// максимальному числовому суффиксу среди существующих. Нечисловые
// суффиксы игнорируются.
func NextSampleID(existing []string) string {
	maxNum := 0
	for _, id := range existing {
		num, ok := SampleIDNumber(id)
		if !ok {
			continue
		}
		if num > maxNum {
			maxNum = num
		}
	}
	return FormatSampleID(maxNum + 1)
}

// SampleIDNumber извлекает числовой суффикс идентификатора.
func SampleIDNumber(id string) (int, bool) {
	if !strings.HasPrefix(id, sampleIDPrefix) {
		return 0, false
	}
	num, err := strconv.Atoi(strings.TrimPrefix(id, sampleIDPrefix))
	if err != nil {
		return 0, false
	}
	return num, true
}

// FormatSampleID собирает идентификатор с дополнением нулями.
// Ширина не обрезается: после sample_999 идёт sample_1000.
func FormatSampleID(num int) string {
	return fmt.Sprintf("%s%0*d", sampleIDPrefix, sampleIDPadWidth, num)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
