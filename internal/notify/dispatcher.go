package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Notifier は状態変更イベントの通知を受け付けるインターフェース。
// 実装はベストエフォートで、呼び出し元をブロックせず、失敗を伝播しない。
type Notifier interface {
	Notify(text string)
}

// Metrics は通知の成否を記録するインターフェース。
type Metrics interface {
	RecordNotificationSent()
	RecordNotificationFailed()
	RecordNotificationDropped()
}

// Dispatcher は通知をバッファ付きキュー経由で非同期送信する。
// Notifyはキューへの投入のみ行い、送信の遅延や失敗が
// リクエスト処理のレイテンシに影響することはない。
type Dispatcher struct {
	client  *TelegramClient
	logger  *slog.Logger
	metrics Metrics
	timeout time.Duration
	queue   chan string
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewDispatcher はDispatcherを生成し、送信ワーカーを起動する。
// timeoutは1通あたりの送信タイムアウト。queueSizeを超えた通知は破棄される。
func NewDispatcher(client *TelegramClient, logger *slog.Logger, metrics Metrics, timeout time.Duration, queueSize int) *Dispatcher {
	d := &Dispatcher{
		client:  client,
		logger:  logger,
		metrics: metrics,
		timeout: timeout,
		queue:   make(chan string, queueSize),
	}

	d.wg.Add(1)
	go d.worker()

	return d
}

// Notify は通知メッセージをキューへ投入する。ブロックしない。
// キューが満杯の場合はメッセージを破棄し、ログに記録する。
func (d *Dispatcher) Notify(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- text:
	default:
		d.logger.Warn("notification queue full, dropping message")
		if d.metrics != nil {
			d.metrics.RecordNotificationDropped()
		}
	}
}

// Close はキューを閉じ、投入済みの通知が送信されるまで待機する。
// シャットダウン時に呼び出す。
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

// worker はキューから通知を取り出して1件ずつ送信する。
// 送信失敗はログに記録するのみで、リトライは行わない。
func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for text := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.client.Send(ctx, text)
		cancel()

		if err != nil {
			d.logger.Error("failed to send notification",
				slog.String("error", err.Error()),
			)
			if d.metrics != nil {
				d.metrics.RecordNotificationFailed()
			}
			continue
		}

		if d.metrics != nil {
			d.metrics.RecordNotificationSent()
		}
	}
}

// compile-time interface check
var _ Notifier = (*Dispatcher)(nil)
