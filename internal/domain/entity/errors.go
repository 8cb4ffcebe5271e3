package entity

import "errors"

// Ошибки уровня предметной области. Все они восстанавливаются на
// границе интерфейса и не останавливают процесс.
var (
	ErrCameraUnavailable = errors.New("camera unavailable")
	ErrCaptureFailed     = errors.New("capture failed")
	ErrStorageWrite      = errors.New("storage write failed")
	ErrSampleNotFound    = errors.New("sample not found")
)
