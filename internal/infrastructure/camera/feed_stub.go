//go:build !gocv
// +build !gocv

package camera

import (
	"context"
	"fmt"

	"lychee-collector/internal/domain/entity"
	"lychee-collector/internal/domain/port"
)

// Feed заглушка канала съёмки для сборки без тега gocv.
type Feed struct {
	channel entity.Channel
	index   int
}

// NewFeed создаёт заглушку канала съёмки.
func NewFeed(channel entity.Channel, index int) *Feed {
	return &Feed{channel: channel, index: index}
}

// Connect возвращает ошибку, если сборка без тега gocv.
func (f *Feed) Connect(ctx context.Context) error {
	_ = ctx
	return fmt.Errorf("%w: gocv build tag is not enabled", entity.ErrCameraUnavailable)
}

// Connected всегда false без тега gocv.
func (f *Feed) Connected() bool {
	return false
}

// PreviewFrame возвращает ошибку, если сборка без тега gocv.
func (f *Feed) PreviewFrame() (*entity.Frame, error) {
	return nil, fmt.Errorf("%w: gocv build tag is not enabled", entity.ErrCameraUnavailable)
}

// CaptureFullFrame возвращает ошибку, если сборка без тега gocv.
func (f *Feed) CaptureFullFrame() (*entity.Frame, error) {
	return nil, fmt.Errorf("%w: gocv build tag is not enabled", entity.ErrCaptureFailed)
}

// Disconnect ничего не делает без тега gocv.
func (f *Feed) Disconnect() {}

// Проверка реализации интерфейса
var _ port.Camera = (*Feed)(nil)
