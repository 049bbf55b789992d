package packagetree

import (
	"fmt"
	"path/filepath"
	"strings"

	"PackScope/internal/domain/model"
)

// Destination は分類情報から配置先ディレクトリを、ルートからのセグメント列として返します。
// 配置対象外の分類では false を返します。
func (t *Tree) Destination(info model.FileSignatureInfo) ([]string, bool) {
	pkg := t.PackageName()
	switch info.Category {
	case model.CategoryBinary:
		return []string{"usr", "bin"}, true
	case model.CategoryAudio:
		return []string{"usr", "share", pkg, "sounds"}, true
	case model.CategoryImage:
		w, h := t.imageSize(info.Path)
		if w == h {
			return []string{"usr", "share", "icons", "hicolor", fmt.Sprintf("%dx%d", w, h), "apps"}, true
		}
		return []string{"usr", "share", pkg, "images"}, true
	case model.CategoryPackage, model.CategoryArchive:
		return []string{"usr", "share", pkg}, true
	default:
		return nil, false
	}
}

// 読み込めない画像は 0x0 として扱うため、正方形のアイコン扱いになる
func (t *Tree) imageSize(path string) (int, int) {
	w, h, err := t.prober.Dimensions(path)
	if err != nil {
		t.logger.Log("WARN", fmt.Sprintf("画像サイズを取得できません: %s", path), err)
		return 0, 0
	}
	return w, h
}

// LeafName は入力ファイルのベース名から最後の拡張子を除いた名前を返します。
// 先頭のドットのみを持つ名前（.desktop など）はそのまま返します。
func LeafName(path string) string {
	base := filepath.Base(path)
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[:i]
	}
	return base
}

// AddFileSignatureInfo は分類済みファイルを配置先ディレクトリに追加します。
// 途中のディレクトリが無ければ作成し、追加のたびに構造変更を通知します。
// 配置対象外の分類では何もせず、無効なインデックスと nil を返します。
func (t *Tree) AddFileSignatureInfo(info model.FileSignatureInfo) (Index, error) {
	if !t.store.Valid(t.root) {
		return invalidIndex(), ErrClosed
	}
	segments, ok := t.Destination(info)
	if !ok {
		t.logger.Log("DEBUG", fmt.Sprintf("配置対象外の分類のためスキップ: %s (%s)", info.Path, info.Category), nil)
		return invalidIndex(), nil
	}

	dir := t.root
	for _, seg := range segments {
		if next, ok := t.store.ChildDirectory(dir, seg); ok {
			dir = next
			continue
		}
		next, err := t.insert(dir, t.store.NewDirectory(seg))
		if err != nil {
			return invalidIndex(), err
		}
		t.logger.Log("DEBUG", fmt.Sprintf("ディレクトリを作成しました: %s", t.store.Path(next)), nil)
		dir = next
	}

	leaf, err := t.insert(dir, t.store.NewLeaf(LeafName(info.Path), info))
	if err != nil {
		return invalidIndex(), err
	}
	t.logger.Log("DEBUG", fmt.Sprintf("ファイルを配置しました: %s <- %s", t.store.Path(leaf), info.Path), nil)
	return t.IndexOf(leaf), nil
}

// insert は child を dir の末尾に追加し、その前後で構造変更を通知します
func (t *Tree) insert(dir, child model.NodeID) (model.NodeID, error) {
	n, ok := t.store.Get(dir)
	if !ok || !n.IsDir() {
		_ = t.store.Release(child)
		return model.NodeID{}, fmt.Errorf("配置先 %s: %w", t.store.Path(dir), model.ErrNotDirectory)
	}

	row := t.store.Count(dir, false)
	t.beginInsertRows(t.IndexOf(dir), row, row)
	id, err := t.store.Add(dir, child)
	t.endInsertRows()
	if err != nil {
		_ = t.store.Release(child)
		return model.NodeID{}, fmt.Errorf("ノードの追加に失敗しました: %w", err)
	}
	return id, nil
}
