package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sahabranjbar-dev/reservito-booking-service/internal/domain"
)

// SlotsCache кэширует рассчитанные слоты в Redis.
// Кэш работает в режиме fail-open: любая ошибка Redis логируется,
// но не прерывает обработку запроса
type SlotsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewSlotsCache создает новый кэш слотов
func NewSlotsCache(client *redis.Client, ttl time.Duration, logger Logger) *SlotsCache {
	return &SlotsCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get возвращает закэшированные слоты или (nil, false) при промахе
func (c *SlotsCache) Get(ctx context.Context, businessID, serviceID int64, date string) ([]domain.AvailableSlot, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, slotsKey(businessID, serviceID, date)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("SlotsCache.Get: redis error: %v", err)
		return nil, false
	}

	var slots []domain.AvailableSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		c.logger.Warn("SlotsCache.Get: unmarshal error: %v", err)
		return nil, false
	}

	return slots, true
}

// Set сохраняет слоты в кэш с настроенным TTL
func (c *SlotsCache) Set(ctx context.Context, businessID, serviceID int64, date string, slots []domain.AvailableSlot) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(slots)
	if err != nil {
		c.logger.Warn("SlotsCache.Set: marshal error: %v", err)
		return
	}

	if err := c.client.Set(ctx, slotsKey(businessID, serviceID, date), data, c.ttl).Err(); err != nil {
		c.logger.Warn("SlotsCache.Set: redis error: %v", err)
	}
}

// Invalidate удаляет закэшированные слоты бизнеса на дату (для всех услуг).
// Вызывается после создания, переноса или отмены бронирования
func (c *SlotsCache) Invalidate(ctx context.Context, businessID int64, date string) {
	if c == nil || c.client == nil {
		return
	}

	pattern := fmt.Sprintf("slots:%d:*:%s", businessID, date)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("SlotsCache.Invalidate: scan error: %v", err)
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("SlotsCache.Invalidate: delete error: %v", err)
	}
}

func slotsKey(businessID, serviceID int64, date string) string {
	return fmt.Sprintf("slots:%d:%d:%s", businessID, serviceID, date)
}
