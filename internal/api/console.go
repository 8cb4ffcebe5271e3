package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	app "lychee-collector/internal/application"
	"lychee-collector/internal/domain/entity"
)

const (
	msgWelcome = `🍈 Сбор данных по образцам личи.

Команды:
  new                — начать новый образец
  set <поле> <знач.> — заполнить поле (variation, days, sugar, acid, ph, notes)
  show               — показать текущий образец
  save               — сохранить образец (CSV + JSON)
  capture <rgb|nir>  — снять полный кадр канала
  connect <rgb|nir>  — подключить камеру канала
  preview <rgb|nir>  — состояние живого просмотра канала
  load <id>          — загрузить образец для правки
  delete <id>        — удалить образец
  export <путь>      — выгрузить CSV
  exportx <путь>     — выгрузить книгу Excel
  stats              — сводка по набору данных
  quit               — выход`

	msgSaved          = "✅ Образец сохранён."
	msgUnknownCommand = "❓ Неизвестная команда. Введите help для справки."
	msgNoSample       = "⚠️ Нет активного образца. Введите new."
)

// Console интерактивная консоль оператора. Все ошибки предметной
// области показываются как статусные сообщения и не останавливают
// программу.
type Console struct {
	session *app.SessionService
	in      io.Reader
	out     io.Writer
}

// New создаёт консоль поверх сервиса сессии.
func New(session *app.SessionService, in io.Reader, out io.Writer) *Console {
	return &Console{
		session: session,
		in:      in,
		out:     out,
	}
}

// Run запускает основной цикл обработки команд.
func (c *Console) Run(ctx context.Context) error {
	c.printf("%s\n\n", msgWelcome)

	// Камеры подключаем сразу, но их отсутствие не мешает вводу данных.
	for _, channel := range []entity.Channel{entity.ChannelRGB, entity.ChannelNIR} {
		if err := c.session.Connect(ctx, channel); err != nil {
			c.printf("⚠️ Камера %s недоступна: %v\n", channel, err)
		} else {
			c.printf("📷 Камера %s подключена.\n", channel)
		}
	}

	if _, err := c.session.NewSample(ctx); err != nil {
		return fmt.Errorf("start first sample: %w", err)
	}
	c.showCurrent()

	scanner := bufio.NewScanner(c.in)
	c.printf("> ")
	for scanner.Scan() {
		if quit := c.handleCommand(ctx, scanner.Text()); quit {
			break
		}
		c.printf("> ")
	}

	c.session.Close()
	return scanner.Err()
}

// handleCommand разбирает одну команду; true означает выход.
func (c *Console) handleCommand(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "help":
		c.printf("%s\n", msgWelcome)

	case "new":
		sample, err := c.session.NewSample(ctx)
		if err != nil {
			c.report("не удалось начать новый образец", err)
			return false
		}
		c.printf("🆕 Новый образец %s.\n", sample.SampleID)

	case "set":
		if len(args) < 2 {
			c.printf("Использование: set <поле> <значение>\n")
			return false
		}
		value := strings.Join(args[2:], " ")
		if err := c.setField(args[1], value); err != nil {
			c.report("значение отклонено", err)
		}

	case "show":
		c.showCurrent()

	case "save":
		sample, err := c.session.Save(ctx)
		if err != nil {
			c.report("сохранение не удалось, образец остался в памяти", err)
			return false
		}
		c.printf("%s\n", msgSaved)
		for _, warn := range sample.ValidationErrors() {
			c.printf("⚠️ %s\n", warn)
		}

	case "capture":
		if len(args) != 2 {
			c.printf("Использование: capture <rgb|nir>\n")
			return false
		}
		path, err := c.session.Capture(ctx, entity.Channel(args[1]))
		if err != nil {
			c.report("снимок не удался", err)
			return false
		}
		c.printf("📸 Кадр %s сохранён: %s\n", args[1], path)

	case "connect":
		if len(args) != 2 {
			c.printf("Использование: connect <rgb|nir>\n")
			return false
		}
		if err := c.session.Connect(ctx, entity.Channel(args[1])); err != nil {
			c.report("камера недоступна", err)
			return false
		}
		c.printf("📷 Камера %s подключена.\n", args[1])

	case "preview":
		if len(args) != 2 {
			c.printf("Использование: preview <rgb|nir>\n")
			return false
		}
		frame, err := c.session.Preview(entity.Channel(args[1]))
		if err != nil {
			c.report("просмотр недоступен", err)
			return false
		}
		if frame == nil {
			c.printf("⏳ Кадр ещё не готов.\n")
			return false
		}
		c.printf("🎞 Последний кадр %s: %dx%d, %d байт.\n", args[1], frame.Width, frame.Height, len(frame.Data))

	case "load":
		if len(args) != 2 {
			c.printf("Использование: load <sample_id>\n")
			return false
		}
		if _, err := c.session.Load(ctx, args[1]); err != nil {
			c.report("загрузка не удалась", err)
			return false
		}
		c.showCurrent()

	case "delete":
		if len(args) != 2 {
			c.printf("Использование: delete <sample_id>\n")
			return false
		}
		if err := c.session.Delete(ctx, args[1]); err != nil {
			c.report("удаление не удалось", err)
			return false
		}
		c.printf("🗑 Образец %s удалён.\n", args[1])

	case "export":
		if len(args) != 2 {
			c.printf("Использование: export <путь>\n")
			return false
		}
		if err := c.session.ExportCSV(ctx, args[1]); err != nil {
			c.report("выгрузка не удалась", err)
			return false
		}
		c.printf("📄 CSV выгружен в %s.\n", args[1])

	case "exportx":
		if len(args) != 2 {
			c.printf("Использование: exportx <путь>\n")
			return false
		}
		if err := c.session.ExportXLSX(ctx, args[1]); err != nil {
			c.report("выгрузка не удалась", err)
			return false
		}
		c.printf("📊 Книга Excel выгружена в %s.\n", args[1])

	case "stats":
		c.showStatistics(ctx)

	case "quit", "exit":
		return true

	default:
		c.printf("%s\n", msgUnknownCommand)
	}

	return false
}

func (c *Console) setField(name, value string) error {
	switch name {
	case "variation":
		return c.session.SetField(entity.FieldVariation, value)
	case "days":
		return c.session.SetField(entity.FieldDays, value)
	case "sugar":
		return c.session.SetField(entity.FieldSugar, value)
	case "acid":
		return c.session.SetField(entity.FieldAcid, value)
	case "ph":
		return c.session.SetField(entity.FieldPH, value)
	case "notes":
		return c.session.SetField(entity.FieldNotes, value)
	}
	return fmt.Errorf("unknown field %q", name)
}

func (c *Console) showCurrent() {
	sample := c.session.Current()
	if sample == nil {
		c.printf("%s\n", msgNoSample)
		return
	}

	sample.ComputeRatio()
	record := sample.CSVRecord()
	header := entity.CSVHeader()
	c.printf("📋 Образец %s:\n", sample.SampleID)
	for i := 1; i < len(header); i++ {
		status := "—"
		if record[i] != "" {
			status = record[i]
		}
		c.printf("  %-18s %s\n", header[i], status)
	}
}

func (c *Console) showStatistics(ctx context.Context) {
	stats, err := c.session.Statistics(ctx)
	if err != nil {
		c.report("сводка недоступна", err)
		return
	}

	c.printf("📈 Всего образцов: %d, полных: %d\n", stats.TotalSamples, stats.CompleteSamples)
	for _, variation := range entity.Variations() {
		if n := stats.Variations[string(variation)]; n > 0 {
			c.printf("  %s: %d\n", variation, n)
		}
	}

	days := make([]int, 0, len(stats.DaysDistribution))
	for day := range stats.DaysDistribution {
		days = append(days, day)
	}
	sort.Ints(days)
	for _, day := range days {
		c.printf("  день %d: %d\n", day, stats.DaysDistribution[day])
	}
}

// report показывает ошибку оператору и дублирует её в лог.
func (c *Console) report(action string, err error) {
	log.Printf("Error: %s: %v", action, err)
	c.printf("⚠️ Ошибка: %s (%v)\n", action, err)
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}
