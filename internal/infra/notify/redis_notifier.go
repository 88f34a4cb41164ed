package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"foodcart/internal/platform/logger"
	"foodcart/internal/usecase"
)

// Notifier はカート変更をRedisのチャンネルへ流す。
type Notifier interface {
	usecase.CartNotifier
	// 購読（別端末への中継用）。ctxが終わるまで onEvent を呼ぶ。
	Subscribe(ctx context.Context, onEvent func(ev usecase.CartChangedEvent)) error
	Close() error
}

type redisNotifier struct {
	log     *logger.Logger
	rdb     *redis.Client
	channel string
}

// New は addr が空なら何もしない実装を返す。
func New(addr string, channel string, log *logger.Logger) (Notifier, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return Noop{}, nil
	}
	if channel == "" {
		channel = "cart"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisNotifier{
		log:     log.With("service", "RedisCartNotifier"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (n *redisNotifier) CartChanged(ctx context.Context, ev usecase.CartChangedEvent) error {
	raw, err := Encode(ev)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, n.channel, raw).Err()
}

func (n *redisNotifier) Subscribe(ctx context.Context, onEvent func(ev usecase.CartChangedEvent)) error {
	sub := n.rdb.Subscribe(ctx, n.channel)

	// 購読開始を確認
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				ev, err := Decode([]byte(m.Payload))
				if err != nil {
					n.log.Warn("bad cart event payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()

	return nil
}

func (n *redisNotifier) Close() error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Close()
}

func Encode(ev usecase.CartChangedEvent) ([]byte, error) {
	return json.Marshal(ev)
}

func Decode(raw []byte) (usecase.CartChangedEvent, error) {
	var ev usecase.CartChangedEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return usecase.CartChangedEvent{}, err
	}
	if ev.CartID <= 0 || ev.UserID <= 0 {
		return usecase.CartChangedEvent{}, fmt.Errorf("cart event missing ids")
	}
	return ev, nil
}

// Noop はRedis未設定時。
type Noop struct{}

func (Noop) CartChanged(ctx context.Context, ev usecase.CartChangedEvent) error { return nil }

func (Noop) Subscribe(ctx context.Context, onEvent func(ev usecase.CartChangedEvent)) error {
	return nil
}

func (Noop) Close() error { return nil }
