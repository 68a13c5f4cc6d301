package util

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

const (
	iconMaxSide    = 256
	productMaxSide = 1200
	jpegQuality    = 85
)

var ErrUnsupportedImageType = fmt.Errorf("unsupported image type")

// LocalImageStore хранит изображения на локальном диске под baseDir
// Растровые изображения нормализуются: иконки до 256px (PNG),
// остальные до 1200px (JPEG). SVG сохраняется как есть, только для иконок.
type LocalImageStore struct {
	baseDir string
}

func NewLocalImageStore(baseDir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image dir: %w", err)
	}
	return &LocalImageStore{baseDir: baseDir}, nil
}

func (s *LocalImageStore) Store(data []byte, collection string, isIcon bool) (string, error) {
	if isIcon && looksLikeSVG(data) {
		return s.write(data, collection, ".svg")
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("failed to detect image type: %w", err)
	}
	switch kind.Extension {
	case "jpg", "png", "webp", "gif":
	default:
		return "", ErrUnsupportedImageType
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	maxSide := productMaxSide
	if isIcon {
		maxSide = iconMaxSide
	}
	// Fit не увеличивает картинку, только уменьшает с сохранением пропорций
	if img.Bounds().Dx() > maxSide || img.Bounds().Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	ext := ".jpg"
	if isIcon {
		ext = ".png"
		err = imaging.Encode(&buf, img, imaging.PNG)
	} else {
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return s.write(buf.Bytes(), collection, ext)
}

func (s *LocalImageStore) write(data []byte, collection, ext string) (string, error) {
	dir := filepath.Join(s.baseDir, collection)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image dir: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	// Относительный путь хранится в БД и отдается клиентам через /uploads
	return filepath.ToSlash(filepath.Join(collection, name)), nil
}

func (s *LocalImageStore) Remove(path string) error {
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("invalid image path: %s", path)
	}

	if err := os.Remove(filepath.Join(s.baseDir, clean)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	return nil
}

// BaseDir возвращает корневую директорию хранилища (для статической раздачи)
func (s *LocalImageStore) BaseDir() string {
	return s.baseDir
}

func looksLikeSVG(data []byte) bool {
	head := bytes.TrimSpace(data)
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	return bytes.HasPrefix(lower, []byte("<svg")) ||
		(bytes.HasPrefix(lower, []byte("<?xml")) && bytes.Contains(lower, []byte("<svg")))
}
