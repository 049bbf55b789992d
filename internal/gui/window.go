// Package gui はGUIを提供します
package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"PackScope/internal/domain/model"
	"PackScope/internal/infrastructure/logging"
	"PackScope/internal/interface/ui"
	"PackScope/internal/usecase/packagetree"
	"PackScope/internal/usecase/report"
)

// SourceScanner は入力ファイルを収集するインターフェースです
type SourceScanner interface {
	Scan(ctx context.Context, rootDir string) ([]model.SourceFile, error)
	Describe(path string) (model.SourceFile, error)
}

// Classifier は入力ファイルを分類するインターフェースです
type Classifier interface {
	Classify(src model.SourceFile) model.FileSignatureInfo
}

// PathSelector はファイルとディレクトリを選択するインターフェースです
type PathSelector interface {
	SelectFile(title string) (string, error)
	SelectDirectory(title string) (string, error)
}

// PendingSource は取り込み待ちのファイルを提供するインターフェースです
type PendingSource interface {
	Drain() []string
	Pending() int
}

// Dependencies はメインウィンドウが使う部品をまとめた構造体です
type Dependencies struct {
	Tree       *packagetree.Tree
	Scanner    SourceScanner
	Classifier Classifier
	Selector   PathSelector
	// Pending は nil の場合、監視からの取り込みを無効にします
	Pending PendingSource
	Reports *report.Generator
	Logger  logging.Logger
}

// MainWindow はパッケージツリーを表示し、ファイルの取り込みを操作するウィンドウです
type MainWindow struct {
	deps    Dependencies
	window  fyne.Window
	binding *TreeBinding
	header  *widget.Label
	status  *widget.Label
	pending *widget.Button
}

// NewMainWindow はメインウィンドウを作成します
func NewMainWindow(a fyne.App, title string, size fyne.Size, deps Dependencies) *MainWindow {
	w := &MainWindow{
		deps:    deps,
		window:  a.NewWindow(title),
		binding: NewTreeBinding(deps.Tree),
		status:  widget.NewLabel(""),
	}
	w.window.Resize(size)

	headerText, _ := deps.Tree.HeaderData(0, packagetree.Horizontal, packagetree.DisplayRole).(string)
	w.header = widget.NewLabelWithStyle(headerText, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	addFile := widget.NewButton("ファイルを追加", func() { w.report(w.AddFile()) })
	addFolder := widget.NewButton("フォルダを追加", func() {
		_, err := w.AddFolder(context.Background())
		w.report(err)
	})
	export := widget.NewButton("一覧を出力", func() {
		_, err := w.ExportListing()
		w.report(err)
	})
	w.pending = widget.NewButton("", func() {
		_, err := w.ImportPending()
		w.report(err)
	})
	w.RefreshPending()
	if deps.Pending == nil {
		w.pending.Hide()
	}

	buttons := container.NewHBox(addFile, addFolder, w.pending, export)
	w.window.SetMainMenu(w.makeMenu())
	w.window.SetContent(container.NewBorder(
		container.NewVBox(w.header, buttons),
		w.status,
		nil, nil,
		w.binding.Widget(),
	))
	return w
}

func (w *MainWindow) makeMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("ファイル",
		fyne.NewMenuItem("ファイルを追加...", func() { w.report(w.AddFile()) }),
		fyne.NewMenuItem("フォルダを追加...", func() {
			_, err := w.AddFolder(context.Background())
			w.report(err)
		}),
		fyne.NewMenuItem("一覧を出力...", func() {
			_, err := w.ExportListing()
			w.report(err)
		}),
	)
	return fyne.NewMainMenu(fileMenu)
}

// Window は fyne のウィンドウを返します
func (w *MainWindow) Window() fyne.Window {
	return w.window
}

// Binding はツリー表示の結び付けを返します
func (w *MainWindow) Binding() *TreeBinding {
	return w.binding
}

// Status は状態表示の文字列を返します
func (w *MainWindow) Status() string {
	return w.status.Text
}

// ShowAndRun はウィンドウを表示してイベントループを実行します
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// report は操作の結果を状態表示とダイアログに反映します。キャンセルはエラーとして扱いません。
func (w *MainWindow) report(err error) {
	if err == nil {
		return
	}
	if ui.IsCancelled(err) {
		w.status.SetText("キャンセルしました")
		return
	}
	w.deps.Logger.Log("ERROR", "操作に失敗しました", err)
	w.status.SetText(err.Error())
	dialog.ShowError(err, w.window)
}

// AddFile はファイルを1つ選択してパッケージに追加します
func (w *MainWindow) AddFile() error {
	path, err := w.deps.Selector.SelectFile("追加するファイルを選択")
	if err != nil {
		return err
	}
	src, err := w.deps.Scanner.Describe(path)
	if err != nil {
		return fmt.Errorf("ファイル情報の取得に失敗しました: %w", err)
	}
	placed, err := w.importSources([]model.SourceFile{src})
	if err != nil {
		return err
	}
	if placed == 0 {
		w.status.SetText(fmt.Sprintf("配置先のない分類のため追加しませんでした: %s", path))
	}
	return nil
}

// AddFolder はフォルダを選択し、その中のファイルを全てパッケージに追加します
func (w *MainWindow) AddFolder(ctx context.Context) (int, error) {
	dir, err := w.deps.Selector.SelectDirectory("取り込むフォルダを選択")
	if err != nil {
		return 0, err
	}
	sources, err := w.deps.Scanner.Scan(ctx, dir)
	if err != nil {
		return 0, err
	}
	return w.importSources(sources)
}

// ImportPending は監視ディレクトリで検出したファイルをパッケージに追加します
func (w *MainWindow) ImportPending() (int, error) {
	if w.deps.Pending == nil {
		return 0, nil
	}
	var sources []model.SourceFile
	for _, path := range w.deps.Pending.Drain() {
		src, err := w.deps.Scanner.Describe(path)
		if err != nil {
			w.deps.Logger.Log("WARN", fmt.Sprintf("取り込めないファイルをスキップ: %s", path), err)
			continue
		}
		sources = append(sources, src)
	}
	placed, err := w.importSources(sources)
	w.RefreshPending()
	return placed, err
}

// RefreshPending は取り込み待ちの件数表示を更新します
func (w *MainWindow) RefreshPending() {
	n := 0
	if w.deps.Pending != nil {
		n = w.deps.Pending.Pending()
	}
	w.pending.SetText(fmt.Sprintf("監視フォルダから取り込む (%d)", n))
}

func (w *MainWindow) importSources(sources []model.SourceFile) (int, error) {
	placed := 0
	for _, src := range sources {
		info := w.deps.Classifier.Classify(src)
		idx, err := w.deps.Tree.AddFileSignatureInfo(info)
		if err != nil {
			return placed, fmt.Errorf("%s の配置に失敗しました: %w", src.Path, err)
		}
		if !idx.IsValid() {
			w.deps.Logger.Log("INFO", fmt.Sprintf("配置先のない分類のためスキップ: %s (%s)", src.Path, info.Category), nil)
			continue
		}
		placed++
		w.deps.Logger.Log("INFO", fmt.Sprintf("配置しました: %s -> %s", src.Path, w.deps.Tree.InstallPath(idx)), nil)
	}
	if placed > 0 {
		w.status.SetText(fmt.Sprintf("%d 件のファイルを配置しました", placed))
	}
	return placed, nil
}

// ExportListing は出力先フォルダを選択し、パッケージ構成の一覧を書き出します
func (w *MainWindow) ExportListing() (string, error) {
	dir, err := w.deps.Selector.SelectDirectory("一覧の出力先を選択")
	if err != nil {
		return "", err
	}
	file, path, err := w.deps.Reports.CreateOutputFile(dir)
	if err != nil {
		return "", err
	}
	defer file.Close()

	w.deps.Reports.WriteTreeStructure(file, w.deps.Tree)
	w.deps.Reports.WriteSourceMap(file, w.deps.Tree)
	w.deps.Logger.Log("INFO", fmt.Sprintf("一覧を出力しました: %s", path), nil)
	w.status.SetText(fmt.Sprintf("一覧を出力しました: %s", path))
	return path, nil
}
