// Package ui はネイティブダイアログによるパス選択機能を提供します
package ui

import (
	"errors"
	"fmt"

	"github.com/sqweek/dialog"

	"PackScope/internal/infrastructure/filesystem"
)

// PathValidator は選択されたパスを検証するインターフェースです
type PathValidator interface {
	filesystem.DirectoryValidator
	filesystem.FileValidator
}

// PathSelector はファイルとディレクトリの選択機能を提供します
type PathSelector struct {
	// validator は選択されたパスの検証を行うインターフェースです
	validator PathValidator

	browseFile      func(title string) (string, error)
	browseDirectory func(title string) (string, error)
}

// NewPathSelector は新しい PathSelector インスタンスを作成します
func NewPathSelector(validator PathValidator) *PathSelector {
	return &PathSelector{
		validator: validator,
		browseFile: func(title string) (string, error) {
			return dialog.File().Title(title).Load()
		},
		browseDirectory: func(title string) (string, error) {
			return dialog.Directory().Title(title).Browse()
		},
	}
}

// SelectFile はダイアログを表示して取り込むファイルを選択します
func (d *PathSelector) SelectFile(title string) (string, error) {
	selected, err := d.browseFile(title)
	if err != nil {
		return "", fmt.Errorf("ファイルの選択がキャンセルまたはエラーになりました: %w", err)
	}

	if err := d.validator.ValidateFilePath(selected); err != nil {
		return "", fmt.Errorf("無効なファイルが選択されました: %w", err)
	}

	return selected, nil
}

// SelectDirectory はダイアログを表示してディレクトリを選択します
func (d *PathSelector) SelectDirectory(title string) (string, error) {
	selectedDir, err := d.browseDirectory(title)
	if err != nil {
		return "", fmt.Errorf("ディレクトリの選択がキャンセルまたはエラーになりました: %w", err)
	}

	if err := d.validator.ValidateDirectoryPath(selectedDir); err != nil {
		return "", fmt.Errorf("無効なディレクトリが選択されました: %w", err)
	}

	return selectedDir, nil
}

// IsCancelled はエラーがユーザーによるキャンセルかどうかを返します
func IsCancelled(err error) bool {
	return err != nil && errors.Is(err, dialog.ErrCancelled)
}
