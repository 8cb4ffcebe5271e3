package entity

import "fmt"

// Field идентификатор редактируемого поля формы
type Field string

const (
	FieldVariation Field = "lychee_variation"
	FieldDays      Field = "days_after_picked"
	FieldSugar     Field = "sugar_content"
	FieldAcid      Field = "acid_content"
	FieldPH        Field = "pH"
	FieldNotes     Field = "notes"
)

// SetField записывает текстовое значение в поле образца с приведением
// типа. Пустая строка очищает поле. Некорректное значение возвращает
// ошибку и оставляет поле без изменений.
func (s *Sample) SetField(field Field, raw string) error {
	switch field {
	case FieldVariation:
		if raw == "" {
			s.LycheeVariation = ""
			return nil
		}
		v := Variation(raw)
		if !v.Valid() {
			return fmt.Errorf("unknown lychee variation %q", raw)
		}
		s.LycheeVariation = string(v)
		return nil

	case FieldDays:
		v, err := parseInt(raw)
		if err != nil {
			return fmt.Errorf("days_after_picked must be an integer: %w", err)
		}
		if v != nil && *v < 0 {
			return fmt.Errorf("days_after_picked must not be negative")
		}
		s.DaysAfterPicked = v
		return nil

	case FieldSugar:
		v, err := parseFloat(raw)
		if err != nil {
			return fmt.Errorf("sugar_content must be a number: %w", err)
		}
		s.SugarContent = v
		return nil

	case FieldAcid:
		v, err := parseFloat(raw)
		if err != nil {
			return fmt.Errorf("acid_content must be a number: %w", err)
		}
		s.AcidContent = v
		return nil

	case FieldPH:
		v, err := parseFloat(raw)
		if err != nil {
			return fmt.Errorf("pH must be a number: %w", err)
		}
		s.PH = v
		return nil

	case FieldNotes:
		s.Notes = raw
		return nil
	}

	return fmt.Errorf("unknown field %q", field)
}
