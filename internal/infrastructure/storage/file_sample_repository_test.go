package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"lychee-collector/internal/domain/entity"
)

func newTestRepo(t *testing.T) (*FileSampleRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewFileSampleRepository(dir)
	require.NoError(t, err)
	return repo, dir
}

func savedSample(id string, variation entity.Variation) *entity.Sample {
	s := entity.NewSample(id)
	s.Timestamp = "2026-08-31T10:00:00Z"
	s.LycheeVariation = string(variation)
	return s
}

func TestFileSampleRepository_CreatesDirectories(t *testing.T) {
	_, dir := newTestRepo(t)

	for _, sub := range []string{"images/rgb", "images/nir"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestFileSampleRepository_NextIDAcrossRestart(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"sample_004", "sample_001", "sample_005", "sample_002", "sample_003"} {
		require.NoError(t, repo.Save(ctx, savedSample(id, entity.VariationNMZ)))
	}

	// Новый экземпляр поверх того же каталога видит прошлую сессию.
	restarted, err := NewFileSampleRepository(dir)
	require.NoError(t, err)

	next, err := restarted.NextSampleID(ctx)
	require.NoError(t, err)
	require.Equal(t, "sample_006", next)
}

func TestFileSampleRepository_NextIDEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)

	next, err := repo.NextSampleID(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sample_001", next)
}

func TestFileSampleRepository_UpsertKeepsSingleRow(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	s := savedSample("sample_003", entity.VariationGW)
	require.NoError(t, repo.Save(ctx, s))

	s.Notes = "edited after first save"
	require.NoError(t, repo.Save(ctx, s))

	file, err := os.Open(filepath.Join(dir, csvFileName))
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2) // заголовок + одна строка
	require.Equal(t, "sample_003", records[1][0])
	require.Equal(t, "edited after first save", records[1][7])

	data, err := os.ReadFile(filepath.Join(dir, jsonFileName))
	require.NoError(t, err)
	var backup []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &backup))
	require.Len(t, backup, 1)
	require.Equal(t, "sample_003", backup[0]["sample_id"])
}

func TestFileSampleRepository_JSONTypesPreserved(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	s := savedSample("sample_001", entity.VariationFZX)
	require.NoError(t, s.SetField(entity.FieldSugar, "18.5"))
	require.NoError(t, s.SetField(entity.FieldAcid, "0.37"))
	s.ComputeRatio()
	require.NoError(t, repo.Save(ctx, s))

	data, err := os.ReadFile(filepath.Join(dir, jsonFileName))
	require.NoError(t, err)
	var backup []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &backup))
	require.Len(t, backup, 1)

	require.Equal(t, 18.5, backup[0]["sugar_content"])
	require.Equal(t, 50.0, backup[0]["sugar_acid_ratio"])
	require.Nil(t, backup[0]["pH"])
	require.Nil(t, backup[0]["days_after_picked"])
}

func TestFileSampleRepository_PartialRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, savedSample("sample_009", entity.VariationNMZ)))

	loaded, err := repo.Load(ctx, "sample_009")
	require.NoError(t, err)
	require.Equal(t, "sample_009", loaded.SampleID)
	require.Equal(t, "NMZ", loaded.LycheeVariation)
	require.Equal(t, "2026-08-31T10:00:00Z", loaded.Timestamp)
	require.Nil(t, loaded.DaysAfterPicked)
	require.Nil(t, loaded.SugarContent)
	require.Nil(t, loaded.AcidContent)
	require.Nil(t, loaded.PH)
	require.Nil(t, loaded.SugarAcidRatio)
	require.Empty(t, loaded.Notes)
	require.Empty(t, loaded.RGBImage)
	require.Empty(t, loaded.NIRImage)
}

func TestFileSampleRepository_RecoversFromCSVWithoutJSON(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	s := savedSample("sample_002", entity.VariationGW)
	require.NoError(t, s.SetField(entity.FieldDays, "3"))
	require.NoError(t, repo.Save(ctx, s))

	// JSON-копия потеряна, набор восстанавливается из CSV.
	require.NoError(t, os.Remove(filepath.Join(dir, jsonFileName)))

	restarted, err := NewFileSampleRepository(dir)
	require.NoError(t, err)

	loaded, err := restarted.Load(ctx, "sample_002")
	require.NoError(t, err)
	require.Equal(t, "GW", loaded.LycheeVariation)
	require.Equal(t, 3, *loaded.DaysAfterPicked)
}

func TestFileSampleRepository_LoadNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Load(context.Background(), "sample_404")
	require.ErrorIs(t, err, entity.ErrSampleNotFound)
}

func TestFileSampleRepository_ExportCSVIsDeterministic(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, savedSample("sample_001", entity.VariationNMZ)))
	require.NoError(t, repo.Save(ctx, savedSample("sample_002", entity.VariationGW)))

	first := filepath.Join(dir, "export_first.csv")
	second := filepath.Join(dir, "export_second.csv")
	require.NoError(t, repo.ExportCSV(ctx, first))
	require.NoError(t, repo.ExportCSV(ctx, second))

	firstData, err := os.ReadFile(first)
	require.NoError(t, err)
	secondData, err := os.ReadFile(second)
	require.NoError(t, err)
	require.Equal(t, firstData, secondData)

	// Выгрузка не трогает основной CSV.
	primary, err := os.ReadFile(filepath.Join(dir, csvFileName))
	require.NoError(t, err)
	require.Equal(t, firstData, primary)
}

func TestFileSampleRepository_ExportXLSX(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	s := savedSample("sample_001", entity.VariationFZX)
	require.NoError(t, s.SetField(entity.FieldSugar, "17.2"))
	require.NoError(t, repo.Save(ctx, s))

	path := filepath.Join(dir, "dataset.xlsx")
	require.NoError(t, repo.ExportXLSX(ctx, path))

	book, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer book.Close()

	id, err := book.GetCellValue("Sheet1", "A2")
	require.NoError(t, err)
	require.Equal(t, "sample_001", id)

	sugar, err := book.GetCellValue("Sheet1", "D2")
	require.NoError(t, err)
	require.Equal(t, "17.2", sugar)
}

func TestFileSampleRepository_SaveImage(t *testing.T) {
	repo, dir := newTestRepo(t)

	frame := &entity.Frame{Data: []byte("jpeg-bytes"), Width: 1920, Height: 1080}
	path, err := repo.SaveImage(context.Background(), "sample_001", entity.ChannelRGB, frame)
	require.NoError(t, err)
	require.Equal(t, filepath.Join("images", "rgb", "sample_001_rgb.jpg"), path)

	data, err := os.ReadFile(filepath.Join(dir, path))
	require.NoError(t, err)
	require.Equal(t, frame.Data, data)
}

func TestFileSampleRepository_DeleteRemovesRecordAndImages(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	frame := &entity.Frame{Data: []byte("jpeg-bytes")}
	imagePath, err := repo.SaveImage(ctx, "sample_001", entity.ChannelRGB, frame)
	require.NoError(t, err)

	s := savedSample("sample_001", entity.VariationNMZ)
	s.RGBImage = imagePath
	require.NoError(t, repo.Save(ctx, s))
	require.NoError(t, repo.Save(ctx, savedSample("sample_002", entity.VariationGW)))

	require.NoError(t, repo.Delete(ctx, "sample_001"))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "sample_002", all[0].SampleID)

	_, statErr := os.Stat(filepath.Join(dir, imagePath))
	require.True(t, os.IsNotExist(statErr))

	require.ErrorIs(t, repo.Delete(ctx, "sample_001"), entity.ErrSampleNotFound)
}
