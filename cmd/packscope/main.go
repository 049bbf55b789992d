// Package main はアプリケーションのエントリーポイントを提供します
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"PackScope/internal/gui"
	"PackScope/internal/infrastructure/config"
	"PackScope/internal/infrastructure/filesystem"
	"PackScope/internal/infrastructure/logging"
	"PackScope/internal/infrastructure/watcher"
	"PackScope/internal/interface/ui"
	"PackScope/internal/usecase/packagetree"
	"PackScope/internal/usecase/report"
)

const appID = "io.github.packscope"

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("エラー: %v", err)
	}

	// ロガーの初期化
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)
	defer logger.Sync()

	// パッケージツリーの初期化
	tree, err := packagetree.New(cfg.PackageName, packagetree.WithLogger(logger))
	if err != nil {
		logger.Log("ERROR", "パッケージツリーの作成に失敗", err)
		log.Fatalf("エラー: %v", err)
	}
	defer tree.Close()
	logger.Log("INFO", fmt.Sprintf("パッケージ %s を作成しました", cfg.PackageName), nil)

	scanner := filesystem.NewScanner(logger)

	deps := gui.Dependencies{
		Tree:       tree,
		Scanner:    scanner,
		Classifier: filesystem.NewClassifier(gui.CategoryIcon),
		Selector:   ui.NewPathSelector(scanner),
		Reports:    report.NewGenerator(),
		Logger:     logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 取り込み用ディレクトリの監視
	var w *watcher.Watcher
	if cfg.WatchDir != "" {
		w, err = watcher.New(cfg.WatchDir, logger)
		if err != nil {
			logger.Log("ERROR", "取り込み用ディレクトリの監視に失敗", err)
			log.Fatalf("エラー: %v", err)
		}
		defer w.Close()
		deps.Pending = w
		go w.Run(ctx)
		logger.Log("INFO", fmt.Sprintf("監視を開始しました: %s", w.Dir()), nil)
	}

	a := app.NewWithID(appID)
	win := gui.NewMainWindow(a, "PackScope", fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)), deps)
	defer win.Binding().Close()

	if w != nil {
		go func() {
			for {
				select {
				case <-w.Notify():
					win.RefreshPending()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	win.ShowAndRun()
	logger.Log("INFO", "処理が完了しました", nil)
}
