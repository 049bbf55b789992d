package model

import "fyne.io/fyne/v2"

// Category は入力ファイルの分類を表します
type Category int

const (
	CategoryOther Category = iota
	CategoryBinary
	CategoryAudio
	CategoryImage
	CategoryPackage
	CategoryArchive
)

// String は分類名を返します
func (c Category) String() string {
	switch c {
	case CategoryBinary:
		return "BINARY"
	case CategoryAudio:
		return "AUDIO"
	case CategoryImage:
		return "IMAGE"
	case CategoryPackage:
		return "PACKAGE"
	case CategoryArchive:
		return "ARCHIVE"
	default:
		return "OTHER"
	}
}

// FileSignatureInfo は分類済みの入力ファイルを表します。
// 分類そのものは外部の分類エンジンが行い、ここではその結果のみを保持します。
type FileSignatureInfo struct {
	// Category はファイルの分類です
	Category Category
	// Path はディスク上の入力ファイルのパスです
	Path string
	// Icon はビューに表示するアイコンです（nil の場合はビュー側の既定アイコン）
	Icon fyne.Resource
}
