package app

import "context"

// Statistics сводка по собранному набору данных.
type Statistics struct {
	TotalSamples     int
	Variations       map[string]int
	DaysDistribution map[int]int
	MissingData      map[string]int
	CompleteSamples  int
}

// Statistics считает сводку по всем сохранённым образцам.
func (s *SessionService) Statistics(ctx context.Context) (*Statistics, error) {
	samples, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalSamples:     len(samples),
		Variations:       make(map[string]int),
		DaysDistribution: make(map[int]int),
		MissingData:      make(map[string]int),
	}

	for _, sample := range samples {
		if sample.LycheeVariation != "" {
			stats.Variations[sample.LycheeVariation]++
		}
		if sample.DaysAfterPicked != nil {
			stats.DaysDistribution[*sample.DaysAfterPicked]++
		}

		missing := sample.MissingFields()
		for _, field := range missing {
			stats.MissingData[field]++
		}
		if sample.IsComplete() && len(missing) == 0 {
			stats.CompleteSamples++
		}
	}

	return stats, nil
}
