// Package watcher は取り込み用ディレクトリを監視し、新しく置かれたファイルを取り込み待ちとして保持します
package watcher

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"PackScope/internal/infrastructure/logging"
)

// Watcher は取り込み用ディレクトリに作成されたファイルのパスを蓄積します。
// 蓄積したパスは Drain で取り出すまで保持し、ツリーへの反映は呼び出し側が行います。
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger logging.Logger
	dir    string

	mu      sync.Mutex
	pending []string
	seen    map[string]struct{}
	notify  chan struct{}
}

// New は dir を監視する Watcher を作成します
func New(dir string, logger logging.Logger) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("監視ディレクトリが存在しません: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("監視対象はディレクトリではありません: %s", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("ファイル監視の初期化に失敗しました: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("ディレクトリの監視に失敗しました: %w", err)
	}

	return &Watcher{
		fsw:    fsw,
		logger: logger,
		dir:    dir,
		seen:   make(map[string]struct{}),
		notify: make(chan struct{}, 1),
	}, nil
}

// Dir は監視しているディレクトリを返します
func (w *Watcher) Dir() string {
	return w.dir
}

// Run は ctx が終了するか Close されるまでイベントを処理します
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Log("WARN", "ファイル監視でエラーが発生しました", err)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, dup := w.seen[event.Name]; dup {
		return
	}
	w.seen[event.Name] = struct{}{}
	w.pending = append(w.pending, event.Name)
	w.logger.Log("DEBUG", fmt.Sprintf("取り込み待ちに追加しました: %s", event.Name), nil)

	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Pending は取り込み待ちのファイル数を返します
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Notify は取り込み待ちが増えたときに値を受け取れるチャネルを返します
func (w *Watcher) Notify() <-chan struct{} {
	return w.notify
}

// Drain は取り込み待ちのパスを到着順に返し、待ち行列を空にします。
// 一度返したパスは、同じパスに再度ファイルが作成されても返しません。
func (w *Watcher) Drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.pending
	w.pending = nil
	return out
}

// Close は監視を終了します
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
