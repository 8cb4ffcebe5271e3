package camera

import (
	"sync"

	"lychee-collector/internal/domain/entity"
)

// frameCell ячейка на один кадр: новая запись вытесняет старую.
// Производитель и потребитель не блокируют друг друга надолго,
// очереди нет, поэтому задержка просмотра остаётся ограниченной.
type frameCell struct {
	mu    sync.RWMutex
	frame *entity.Frame
}

// store заменяет текущий кадр новым
func (c *frameCell) store(frame *entity.Frame) {
	c.mu.Lock()
	c.frame = frame
	c.mu.Unlock()
}

// load возвращает последний кадр, nil если кадров ещё не было
func (c *frameCell) load() *entity.Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frame
}

// clear сбрасывает ячейку
func (c *frameCell) clear() {
	c.mu.Lock()
	c.frame = nil
	c.mu.Unlock()
}
