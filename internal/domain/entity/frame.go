package entity

// Channel логический канал съёмки, привязанный к своей камере
type Channel string

const (
	ChannelRGB Channel = "rgb" // видимый спектр
	ChannelNIR Channel = "nir" // ближний инфракрасный
)

// Frame один кадр с камеры в формате JPEG.
type Frame struct {
	Data   []byte // JPEG-байты кадра
	Width  int    // ширина в пикселях
	Height int    // высота в пикселях
}
