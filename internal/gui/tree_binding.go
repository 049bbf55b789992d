package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"PackScope/internal/domain/model"
	"PackScope/internal/usecase/packagetree"
)

// TreeBinding はパッケージツリーのモデルを widget.Tree に結び付けます。
// ノードの UID はノードハンドルの文字列表現で、ルートは空文字列です。
type TreeBinding struct {
	model       *packagetree.Tree
	tree        *widget.Tree
	parent      packagetree.Index
	unsubscribe func()
}

// NewTreeBinding はモデルを表示する widget.Tree を作成し、構造変更通知を購読します
func NewTreeBinding(m *packagetree.Tree) *TreeBinding {
	b := &TreeBinding{model: m}
	b.tree = widget.NewTree(b.childUIDs, b.isBranch, b.createNode, b.updateNode)
	b.unsubscribe = m.Subscribe(b)
	return b
}

// Widget は結び付けた widget.Tree を返します
func (b *TreeBinding) Widget() *widget.Tree {
	return b.tree
}

// Close は構造変更通知の購読を解除します
func (b *TreeBinding) Close() {
	b.unsubscribe()
}

func uidOf(idx packagetree.Index) widget.TreeNodeID {
	if !idx.IsValid() {
		return ""
	}
	return idx.NodeID().String()
}

func (b *TreeBinding) indexOf(uid widget.TreeNodeID) (packagetree.Index, bool) {
	if uid == "" {
		return packagetree.Index{}, true
	}
	id, err := model.ParseNodeID(uid)
	if err != nil {
		return packagetree.Index{}, false
	}
	idx := b.model.IndexOf(id)
	return idx, idx.IsValid()
}

func (b *TreeBinding) childUIDs(uid widget.TreeNodeID) []widget.TreeNodeID {
	parent, ok := b.indexOf(uid)
	if !ok {
		return nil
	}
	n := b.model.RowCount(parent)
	uids := make([]widget.TreeNodeID, 0, n)
	for row := 0; row < n; row++ {
		if idx := b.model.Index(row, 0, parent); idx.IsValid() {
			uids = append(uids, uidOf(idx))
		}
	}
	return uids
}

func (b *TreeBinding) isBranch(uid widget.TreeNodeID) bool {
	idx, ok := b.indexOf(uid)
	return ok && b.model.Kind(idx) == model.KindDirectory
}

func (b *TreeBinding) createNode(bool) fyne.CanvasObject {
	return container.NewHBox(widget.NewIcon(nil), widget.NewLabel(""))
}

func (b *TreeBinding) updateNode(uid widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
	box := obj.(*fyne.Container)
	icon := box.Objects[0].(*widget.Icon)
	label := box.Objects[1].(*widget.Label)

	idx, ok := b.indexOf(uid)
	if !ok {
		icon.SetResource(nil)
		label.SetText("")
		return
	}

	res := b.model.Decoration(idx)
	if res == nil {
		res = theme.FileIcon()
	}
	icon.SetResource(res)
	label.SetText(b.model.Display(idx))
}

// BeginInsertRows は挿入先の親を記録します
func (b *TreeBinding) BeginInsertRows(parent packagetree.Index, first, last int) {
	b.parent = parent
}

// EndInsertRows はツリーを再描画し、挿入先までの枝を開きます
func (b *TreeBinding) EndInsertRows() {
	var chain []packagetree.Index
	for p := b.parent; p.IsValid(); p = b.model.Parent(p) {
		chain = append(chain, p)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		b.tree.OpenBranch(uidOf(chain[i]))
	}
	b.tree.Refresh()
}
