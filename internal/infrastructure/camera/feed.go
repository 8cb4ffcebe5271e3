//go:build gocv
// +build gocv

package camera

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"lychee-collector/internal/domain/entity"
	"lychee-collector/internal/domain/port"
)

const (
	previewWidth  = 320
	previewHeight = 240
	pollInterval  = 33 * time.Millisecond // ~30 FPS
)

// Feed один канал съёмки поверх gocv.VideoCapture.
// Фоновая горутина опрашивает устройство и кладёт уменьшенный кадр
// в ячейку "последний кадр побеждает"; полный кадр снимается
// отдельным чтением в родном разрешении.
type Feed struct {
	channel entity.Channel
	index   int

	mu     sync.Mutex
	cam    *gocv.VideoCapture
	latest frameCell
	stop   chan struct{}
	done   chan struct{}
}

// NewFeed создаёт канал съёмки для устройства с заданным индексом.
func NewFeed(channel entity.Channel, index int) *Feed {
	return &Feed{channel: channel, index: index}
}

// Connect открывает устройство и запускает опрос кадров.
func (f *Feed) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cam != nil {
		return nil
	}

	cam, err := gocv.OpenVideoCapture(f.index)
	if err != nil {
		return fmt.Errorf("%w: %s device %d: %s", entity.ErrCameraUnavailable, f.channel, f.index, err)
	}

	// Пробное чтение: устройство может открыться, но не отдавать кадры.
	probe := gocv.NewMat()
	defer probe.Close()
	if ok := cam.Read(&probe); !ok || probe.Empty() {
		cam.Close()
		return fmt.Errorf("%w: %s device %d returned no frame", entity.ErrCameraUnavailable, f.channel, f.index)
	}

	f.cam = cam
	f.stop = make(chan struct{})
	f.done = make(chan struct{})
	go f.pollLoop(f.stop, f.done)

	return nil
}

// Connected сообщает, открыто ли устройство.
func (f *Feed) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cam != nil
}

// PreviewFrame возвращает последний кадр просмотра.
// nil без ошибки означает, что кадр ещё не готов.
func (f *Feed) PreviewFrame() (*entity.Frame, error) {
	if !f.Connected() {
		return nil, fmt.Errorf("%w: %s device is not connected", entity.ErrCameraUnavailable, f.channel)
	}
	return f.latest.load(), nil
}

// CaptureFullFrame снимает один кадр в родном разрешении устройства.
func (f *Feed) CaptureFullFrame() (*entity.Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cam == nil {
		return nil, fmt.Errorf("%w: %s device is not connected", entity.ErrCaptureFailed, f.channel)
	}

	mat := gocv.NewMat()
	defer mat.Close()
	if ok := f.cam.Read(&mat); !ok || mat.Empty() {
		return nil, fmt.Errorf("%w: %s device read failed", entity.ErrCaptureFailed, f.channel)
	}

	return encodeFrame(mat)
}

// Disconnect освобождает устройство; повторный вызов безопасен.
func (f *Feed) Disconnect() {
	f.mu.Lock()
	if f.cam == nil || f.stop == nil {
		f.mu.Unlock()
		return
	}
	close(f.stop)
	f.stop = nil
	done := f.done
	f.mu.Unlock()

	<-done

	f.mu.Lock()
	f.cam.Close()
	f.cam = nil
	f.latest.clear()
	f.mu.Unlock()
}

// pollLoop читает кадры устройства и обновляет ячейку просмотра.
// Неудачные чтения пропускаются: временный сбой не фатален,
// потребитель просто увидит прежний кадр.
func (f *Feed) pollLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	mat := gocv.NewMat()
	defer mat.Close()
	preview := gocv.NewMat()
	defer preview.Close()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		f.mu.Lock()
		if f.cam == nil {
			f.mu.Unlock()
			return
		}
		ok := f.cam.Read(&mat)
		f.mu.Unlock()

		if !ok || mat.Empty() {
			continue
		}

		gocv.Resize(mat, &preview, image.Pt(previewWidth, previewHeight), 0, 0, gocv.InterpolationArea)
		frame, err := encodeFrame(preview)
		if err != nil {
			continue
		}
		f.latest.store(frame)
	}
}

func encodeFrame(mat gocv.Mat) (*entity.Frame, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %s", entity.ErrCaptureFailed, err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())

	return &entity.Frame{
		Data:   data,
		Width:  mat.Cols(),
		Height: mat.Rows(),
	}, nil
}

// Проверка реализации интерфейса
var _ port.Camera = (*Feed)(nil)
