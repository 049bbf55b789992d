// package model はドメインモデルを定義します
package model

// SourceFile はパッケージへ取り込む候補となる入力ファイルを表します
type SourceFile struct {
	// Path は入力ファイルの絶対パスを表します
	Path string
	// RelPath は走査したルートディレクトリからの相対パスを表します
	RelPath string
	// Depth は走査したルートディレクトリからの深さを表します
	Depth int
	// Size はファイルサイズ（バイト）を表します
	Size int64
	// Executable は実行権限が付与されているかどうかを示します
	Executable bool
	// IsBinary はファイル先頭がバイナリデータであるかどうかを示します
	IsBinary bool
	// ReadErr はファイル読み込み時のエラーを保持します
	ReadErr error
}
