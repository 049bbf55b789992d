package packagetree

import "PackScope/internal/domain/model"

// Role は Data で取得する値の種類です
type Role int

const (
	// DisplayRole はノードの表示文字列（パス）を表します
	DisplayRole Role = iota
	// DecorationRole はノードのアイコンを表します
	DecorationRole
)

// Orientation はヘッダの向きです
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Index はビューがノードを指すためのハンドルです。
// 親の中での行・列と、ノードストア内のノードハンドルを保持します。
// ゼロ値は無効なインデックスで、ツリーのルートを親として指定する場合に使います。
type Index struct {
	row    int
	column int
	id     model.NodeID
}

func invalidIndex() Index {
	return Index{row: -1, column: -1}
}

// IsValid はインデックスがノードを指しているかどうかを返します
func (i Index) IsValid() bool {
	return !i.id.IsZero()
}

// Row は親ディレクトリ内での行番号を返します
func (i Index) Row() int {
	return i.row
}

// Column は列番号を返します
func (i Index) Column() int {
	return i.column
}

// NodeID はインデックスが指すノードのハンドルを返します
func (i Index) NodeID() model.NodeID {
	return i.id
}
