package imageproc

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"drift_inc/internal/domain/models"

	"github.com/disintegration/imaging"
)

const (
	// MaxWidth максимальная ширина нормализованного изображения в пикселях
	MaxWidth = 2048
	// Quality фиксированное качество JPEG-кодирования
	Quality = 80

	// ContentType MIME-тип нормализованного изображения
	ContentType = "image/jpeg"
	// Ext расширение файла нормализованного изображения
	Ext = ".jpg"
)

// Normalize перекодирует произвольное изображение в веб-формат:
// восстанавливает ориентацию по EXIF, ограничивает ширину MaxWidth без
// увеличения меньших изображений и кодирует в JPEG с фиксированным качеством.
// Возвращает models.ErrUnsupportedMedia, если вход не декодируется как изображение.
func Normalize(raw []byte) ([]byte, error) {
	const op = "imageproc.Normalize"

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnsupportedMedia)
	}

	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}
