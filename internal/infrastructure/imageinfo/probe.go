// Package imageinfo は画像ファイルの寸法を取得します
package imageinfo

import (
	"fmt"
	"image"
	"os"

	// 標準デコーダ
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Prober は画像ヘッダから幅と高さを読み取ります。画素データはデコードしません。
type Prober struct{}

// NewProber は新しい Prober インスタンスを作成します
func NewProber() *Prober {
	return &Prober{}
}

// Dimensions は path の画像の幅と高さを返します
func (p *Prober) Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("画像ファイルを開けません: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("画像ヘッダの解析に失敗しました %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}
