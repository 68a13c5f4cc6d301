package util

import (
	"context"
	"time"

	"elpro/internal/app/store/entity"
)

// NavCache интерфейс кеша навигационного дерева
// Используется для dependency injection и упрощения тестирования
type NavCache interface {
	SetNavTree(ctx context.Context, tree []*entity.CategoryNode, ttl time.Duration) error
	GetNavTree(ctx context.Context) ([]*entity.CategoryNode, error)
	DeleteNavTree(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// ImageStore интерфейс хранилища изображений
// Remove best-effort: ошибка логируется вызывающим кодом, но не фатальна
type ImageStore interface {
	Store(data []byte, collection string, isIcon bool) (string, error)
	Remove(path string) error
}
