// Package filesystem はファイルシステム操作を提供します
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"PackScope/internal/domain/model"
	"PackScope/internal/infrastructure/logging"
)

const DefaultBinaryCheckSize = 1024

// ErrNotRegularFile は通常のファイルではないパスが指定されたことを示します
var ErrNotRegularFile = errors.New("通常のファイルではありません")

// DirectoryValidator はディレクトリの検証機能を提供するインターフェースです
type DirectoryValidator interface {
	ValidateDirectoryPath(path string) error
}

// FileValidator は入力ファイルの検証機能を提供するインターフェースです
type FileValidator interface {
	ValidateFilePath(path string) error
}

// SourceScanner は入力ファイルを収集する機能を提供するインターフェースです
type SourceScanner interface {
	DirectoryValidator
	FileValidator
	Scan(ctx context.Context, rootDir string) ([]model.SourceFile, error)
}

// Scanner はファイルシステムをスキャンするための構造体です
type Scanner struct {
	logger          logging.Logger
	binaryCheckSize int
}

// NewScanner は新しい Scanner インスタンスを作成します
func NewScanner(logger logging.Logger) *Scanner {
	return &Scanner{
		logger:          logger,
		binaryCheckSize: DefaultBinaryCheckSize,
	}
}

// ValidateDirectoryPath はパスが安全で有効なディレクトリであることを確認します
func (s *Scanner) ValidateDirectoryPath(path string) error {
	if path == "" {
		return fmt.Errorf("ディレクトリパスが指定されていません")
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("ディレクトリが存在しません: %w", err)
	}

	if !fileInfo.IsDir() {
		return fmt.Errorf("指定されたパスはディレクトリではありません")
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("絶対パスで指定してください")
	}

	if strings.ContainsAny(path, "<>|?*") {
		return fmt.Errorf("パスに不正な文字が含まれています")
	}

	return nil
}

// ValidateFilePath はパスが読み込み可能な通常のファイルであることを確認します
func (s *Scanner) ValidateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("ファイルパスが指定されていません")
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("ファイルが存在しません: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	if !filepath.IsAbs(path) {
		return fmt.Errorf("絶対パスで指定してください")
	}

	return nil
}

// isBinaryFile は与えられたバイトデータがバイナリファイルかどうかを判定します
func (s *Scanner) isBinaryFile(content []byte) bool {
	return isBinary(content, s.binaryCheckSize)
}

func isBinary(content []byte, checkSize int) bool {
	if len(content) < checkSize {
		checkSize = len(content)
	}

	// NULL(0x00)や制御不能文字を検出
	for i := 0; i < checkSize; i++ {
		if content[i] == 0x00 || (content[i] < 0x09 && content[i] != 0x0A && content[i] != 0x0D) {
			return true
		}
	}
	return false
}

// readHead はファイルの先頭 n バイトを読み込みます
func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}

// Describe は 1 つのファイルの SourceFile を作成します
func (s *Scanner) Describe(path string) (model.SourceFile, error) {
	if err := s.ValidateFilePath(path); err != nil {
		return model.SourceFile{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return model.SourceFile{}, fmt.Errorf("ファイル情報の取得に失敗しました: %w", err)
	}
	return s.describe(path, filepath.Base(path), 0, info), nil
}

func (s *Scanner) describe(path, relPath string, depth int, info fs.FileInfo) model.SourceFile {
	entry := model.SourceFile{
		Path:       path,
		RelPath:    relPath,
		Depth:      depth,
		Size:       info.Size(),
		Executable: info.Mode().Perm()&0111 != 0,
	}

	head, err := readHead(path, s.binaryCheckSize)
	if err != nil {
		s.logger.Log("ERROR", fmt.Sprintf("ファイル '%s' の読み込みに失敗", path), err)
		entry.ReadErr = err
		return entry
	}
	entry.IsBinary = s.isBinaryFile(head)
	return entry
}

// Scan はファイルシステムを走査し、通常のファイルを収集します。
// ディレクトリ自体はパッケージ内の配置先が分類から決まるため収集しません。
func (s *Scanner) Scan(ctx context.Context, rootDir string) ([]model.SourceFile, error) {
	var entries []model.SourceFile

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.logger.Log("WARN", fmt.Sprintf("パス '%s' の走査中にエラー発生", path), err)
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			s.logger.Log("WARN", fmt.Sprintf("相対パスの取得に失敗: %s", path), err)
			return nil
		}

		if relPath == "." || info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			s.logger.Log("WARN", fmt.Sprintf("通常のファイルではないためスキップ: %s", path), nil)
			return nil
		}

		depth := strings.Count(relPath, string(os.PathSeparator))
		entries = append(entries, s.describe(path, relPath, depth, info))
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("ファイルシステムの走査に失敗しました: %w", err)
	}

	return entries, nil
}
