package filesystem

import (
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"

	"PackScope/internal/domain/model"
)

// IconResolver は分類に応じたアイコンを返す関数です
type IconResolver func(model.Category) fyne.Resource

var extensionCategories = map[string]model.Category{
	".wav":  model.CategoryAudio,
	".mp3":  model.CategoryAudio,
	".ogg":  model.CategoryAudio,
	".oga":  model.CategoryAudio,
	".opus": model.CategoryAudio,
	".flac": model.CategoryAudio,

	".png":  model.CategoryImage,
	".jpg":  model.CategoryImage,
	".jpeg": model.CategoryImage,
	".gif":  model.CategoryImage,
	".bmp":  model.CategoryImage,
	".tif":  model.CategoryImage,
	".tiff": model.CategoryImage,
	".webp": model.CategoryImage,

	".deb": model.CategoryPackage,
	".rpm": model.CategoryPackage,

	".tar": model.CategoryArchive,
	".gz":  model.CategoryArchive,
	".tgz": model.CategoryArchive,
	".bz2": model.CategoryArchive,
	".xz":  model.CategoryArchive,
	".zst": model.CategoryArchive,
	".zip": model.CategoryArchive,
	".7z":  model.CategoryArchive,

	".exe":      model.CategoryBinary,
	".bin":      model.CategoryBinary,
	".appimage": model.CategoryBinary,
}

// Classifier は拡張子とファイル属性から入力ファイルを分類する簡易分類器です
type Classifier struct {
	icons IconResolver
}

// NewClassifier は新しい Classifier インスタンスを作成します。icons が nil の場合はアイコンを付けません。
func NewClassifier(icons IconResolver) *Classifier {
	return &Classifier{icons: icons}
}

// Classify は入力ファイルの分類情報を返します。
// 拡張子で判定できないファイルは、実行権限があり内容がバイナリの場合のみバイナリとして扱います。
// 実行権限付きのテキスト（シェルスクリプトなど）は配置対象外です。
func (c *Classifier) Classify(src model.SourceFile) model.FileSignatureInfo {
	category, ok := extensionCategories[strings.ToLower(filepath.Ext(src.Path))]
	if !ok {
		category = model.CategoryOther
		if src.Executable && src.IsBinary && src.ReadErr == nil {
			category = model.CategoryBinary
		}
	}

	info := model.FileSignatureInfo{Category: category, Path: src.Path}
	if c.icons != nil {
		info.Icon = c.icons(category)
	}
	return info
}
