package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"PackScope/internal/domain/model"
)

// CategoryIcon は分類に応じたテーマアイコンを返します
func CategoryIcon(c model.Category) fyne.Resource {
	switch c {
	case model.CategoryBinary:
		return theme.FileApplicationIcon()
	case model.CategoryAudio:
		return theme.FileAudioIcon()
	case model.CategoryImage:
		return theme.FileImageIcon()
	default:
		return theme.FileIcon()
	}
}
