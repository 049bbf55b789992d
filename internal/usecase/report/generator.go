// Package report はパッケージ構成の一覧レポート生成機能を提供します
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"PackScope/internal/domain/model"
	"PackScope/internal/usecase/packagetree"
)

const (
	OutputFilePrefix = "listing_"
	OutputFileSuffix = ".txt"
	TimestampLayout  = "20060102_150405"
)

// TreeModel はレポートが参照する階層モデルのインターフェースです
type TreeModel interface {
	Index(row, column int, parent packagetree.Index) packagetree.Index
	RowCount(parent packagetree.Index) int
	Display(idx packagetree.Index) string
	Kind(idx packagetree.Index) model.NodeKind
	SignatureInfo(idx packagetree.Index) (model.FileSignatureInfo, bool)
	HeaderData(section int, orientation packagetree.Orientation, role packagetree.Role) any
}

// Generator はレポート生成機能を提供します
type Generator struct{}

// NewGenerator は新しい Generator インスタンスを作成します
func NewGenerator() *Generator {
	return &Generator{}
}

// CreateOutputFile は出力ファイルを作成します
func (g *Generator) CreateOutputFile(outputDir string) (*os.File, string, error) {
	timestamp := time.Now().Format(TimestampLayout)
	outputPath := filepath.Join(outputDir, fmt.Sprintf("%s%s%s", OutputFilePrefix, timestamp, OutputFileSuffix))

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return nil, "", fmt.Errorf("出力ファイルの作成に失敗しました: %w", err)
	}

	return outputFile, outputPath, nil
}

// walk は深さ優先でモデルの全ノードをたどります
func walk(m TreeModel, parent packagetree.Index, depth int, fn func(idx packagetree.Index, depth int)) {
	for row := 0; row < m.RowCount(parent); row++ {
		idx := m.Index(row, 0, parent)
		if !idx.IsValid() {
			continue
		}
		fn(idx, depth)
		walk(m, idx, depth+1, fn)
	}
}

// WriteTreeStructure は階層の深さに応じたインデントを付与し,
// フォルダ（[DIR]）とファイル（[FILE]）を一覧で出力します。
func (g *Generator) WriteTreeStructure(writer io.Writer, m TreeModel) {
	fmt.Fprintln(writer, "===== パッケージ構成 =====")
	if header, ok := m.HeaderData(0, packagetree.Horizontal, packagetree.DisplayRole).(string); ok {
		fmt.Fprintln(writer, header)
	}

	walk(m, packagetree.Index{}, 0, func(idx packagetree.Index, depth int) {
		indent := strings.Repeat("  ", depth)
		entryType := "[FILE]"
		if m.Kind(idx) == model.KindDirectory {
			entryType = "[DIR] "
		}
		fmt.Fprintf(writer, "%s%s %s\n", indent, entryType, m.Display(idx))
	})
}

// WriteSourceMap は各ファイルの配置先と配置元の対応を出力します。
// 配置元を持たないファイル（初期構成の control など）は出力しません。
func (g *Generator) WriteSourceMap(writer io.Writer, m TreeModel) {
	fmt.Fprintln(writer, "\n===== 配置元ファイル =====")

	walk(m, packagetree.Index{}, 0, func(idx packagetree.Index, _ int) {
		info, ok := m.SignatureInfo(idx)
		if !ok || info.Path == "" {
			return
		}
		fmt.Fprintf(writer, "%s <- %s [%s]\n", m.Display(idx), info.Path, info.Category)
	})
}
