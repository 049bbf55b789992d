package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NodeKind はノードの種別（ディレクトリまたはファイル）を表します
type NodeKind uint8

const (
	KindDirectory NodeKind = iota + 1
	KindLeaf
)

func (k NodeKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

var (
	// ErrStaleNode は解放済み、または存在しないノードを指すハンドルが使われたことを示します
	ErrStaleNode = errors.New("ノードが存在しません")
	// ErrNotDirectory はディレクトリでないノードに子を追加しようとしたことを示します
	ErrNotDirectory = errors.New("ディレクトリではありません")
	// ErrAlreadyOwned は既に親を持つノードを追加しようとしたことを示します
	ErrAlreadyOwned = errors.New("ノードは既に別のディレクトリに所属しています")
	// ErrCycle は祖先ノードを子孫として追加しようとしたことを示します
	ErrCycle = errors.New("祖先ノードを子として追加することはできません")
)

// NodeID はノードストア内のノードを指すハンドルです。
// スロット番号と世代番号の組で表し、解放後のスロットを指す古いハンドルは世代の不一致で検出されます。
// ゼロ値はどのノードも指しません。
type NodeID struct {
	slot       uint32
	generation uint32
}

// IsZero はハンドルがどのノードも指していないかどうかを返します
func (id NodeID) IsZero() bool {
	return id.generation == 0
}

// String は "スロット.世代" 形式の文字列を返します。ParseNodeID で復元できます。
func (id NodeID) String() string {
	return strconv.FormatUint(uint64(id.slot), 10) + "." + strconv.FormatUint(uint64(id.generation), 10)
}

// ParseNodeID は String が返した形式の文字列からハンドルを復元します
func ParseNodeID(s string) (NodeID, error) {
	slotStr, genStr, ok := strings.Cut(s, ".")
	if !ok {
		return NodeID{}, fmt.Errorf("ノードIDの形式が不正です: %q", s)
	}
	slot, err := strconv.ParseUint(slotStr, 10, 32)
	if err != nil {
		return NodeID{}, fmt.Errorf("ノードIDのスロットが不正です: %w", err)
	}
	gen, err := strconv.ParseUint(genStr, 10, 32)
	if err != nil {
		return NodeID{}, fmt.Errorf("ノードIDの世代が不正です: %w", err)
	}
	if gen == 0 {
		return NodeID{}, fmt.Errorf("ノードIDの世代が不正です: %q", s)
	}
	return NodeID{slot: uint32(slot), generation: uint32(gen)}, nil
}

// Node はストア内のノードの読み取り専用のコピーです
type Node struct {
	ID   NodeID
	Kind NodeKind
	Name string
	// Parent は所属するディレクトリです。ルートではゼロ値です。
	Parent NodeID
	// Signature はファイルノードの分類情報です。ディレクトリではゼロ値です。
	Signature FileSignatureInfo
}

// IsDir はノードがディレクトリかどうかを返します
func (n Node) IsDir() bool {
	return n.Kind == KindDirectory
}

type slot struct {
	generation uint32
	live       bool
	kind       NodeKind
	name       string
	parent     NodeID
	children   []NodeID
	signature  FileSignatureInfo
}

// Store はノードを所有するアリーナです。
// 子ノードは親ディレクトリの子リストだけが所有し、親への参照は上方向の探索にのみ使います。
// 並行アクセスには対応していません。
type Store struct {
	slots []slot
	free  []uint32
}

// NewStore は空のノードストアを作成します
func NewStore() *Store {
	return &Store{}
}

// NewDirectory は親を持たないディレクトリノードを作成します
func (s *Store) NewDirectory(name string) NodeID {
	return s.alloc(slot{kind: KindDirectory, name: name})
}

// NewLeaf は親を持たないファイルノードを作成します
func (s *Store) NewLeaf(name string, sig FileSignatureInfo) NodeID {
	return s.alloc(slot{kind: KindLeaf, name: name, signature: sig})
}

func (s *Store) alloc(n slot) NodeID {
	n.live = true
	if k := len(s.free); k > 0 {
		idx := s.free[k-1]
		s.free = s.free[:k-1]
		n.generation = s.slots[idx].generation + 1
		if n.generation == 0 {
			n.generation = 1
		}
		s.slots[idx] = n
		return NodeID{slot: idx, generation: n.generation}
	}
	n.generation = 1
	s.slots = append(s.slots, n)
	return NodeID{slot: uint32(len(s.slots) - 1), generation: 1}
}

// get は有効なノードのスロットを返します。
// 返したポインタは次の alloc までの間だけ有効です。
func (s *Store) get(id NodeID) *slot {
	if id.IsZero() || int(id.slot) >= len(s.slots) {
		return nil
	}
	n := &s.slots[id.slot]
	if !n.live || n.generation != id.generation {
		return nil
	}
	return n
}

// Valid はハンドルが現存するノードを指しているかどうかを返します
func (s *Store) Valid(id NodeID) bool {
	return s.get(id) != nil
}

// Len は現存するノードの数を返します
func (s *Store) Len() int {
	return len(s.slots) - len(s.free)
}

// Get はノードのコピーを返します
func (s *Store) Get(id NodeID) (Node, bool) {
	n := s.get(id)
	if n == nil {
		return Node{}, false
	}
	return Node{
		ID:        id,
		Kind:      n.kind,
		Name:      n.name,
		Parent:    n.parent,
		Signature: n.signature,
	}, true
}

// Add は child の所有権を dir に移し、子リストの末尾に追加します。
// 連続したディレクトリ作成のため、追加したノードのハンドルを返します。
func (s *Store) Add(dir, child NodeID) (NodeID, error) {
	d := s.get(dir)
	if d == nil {
		return NodeID{}, fmt.Errorf("追加先 %s: %w", dir, ErrStaleNode)
	}
	if d.kind != KindDirectory {
		return NodeID{}, fmt.Errorf("追加先 %q: %w", d.name, ErrNotDirectory)
	}
	c := s.get(child)
	if c == nil {
		return NodeID{}, fmt.Errorf("追加するノード %s: %w", child, ErrStaleNode)
	}
	if !c.parent.IsZero() {
		return NodeID{}, fmt.Errorf("追加するノード %q: %w", c.name, ErrAlreadyOwned)
	}
	for a := dir; !a.IsZero(); a = s.slots[a.slot].parent {
		if a == child {
			return NodeID{}, fmt.Errorf("追加するノード %q: %w", c.name, ErrCycle)
		}
	}

	c.parent = dir
	d.children = append(d.children, child)
	return child, nil
}

// Child は dir の row 番目の子を返します
func (s *Store) Child(dir NodeID, row int) (NodeID, bool) {
	d := s.get(dir)
	if d == nil || row < 0 || row >= len(d.children) {
		return NodeID{}, false
	}
	return d.children[row], true
}

// Children は dir の子のハンドルを追加順に返します
func (s *Store) Children(dir NodeID) []NodeID {
	d := s.get(dir)
	if d == nil {
		return nil
	}
	out := make([]NodeID, len(d.children))
	copy(out, d.children)
	return out
}

// ChildByName は名前が完全一致する最初の子を返します
func (s *Store) ChildByName(dir NodeID, name string) (NodeID, bool) {
	return s.findChild(dir, name, 0)
}

// ChildDirectory は名前が完全一致する最初の子ディレクトリを返します。
// 同名のファイルノードは無視します。
func (s *Store) ChildDirectory(dir NodeID, name string) (NodeID, bool) {
	return s.findChild(dir, name, KindDirectory)
}

func (s *Store) findChild(dir NodeID, name string, kind NodeKind) (NodeID, bool) {
	d := s.get(dir)
	if d == nil {
		return NodeID{}, false
	}
	for _, id := range d.children {
		c := &s.slots[id.slot]
		if c.name == name && (kind == 0 || c.kind == kind) {
			return id, true
		}
	}
	return NodeID{}, false
}

// Count は dir の子の数を返します。
// includeNested が true の場合は全ての子孫を数えます。
func (s *Store) Count(dir NodeID, includeNested bool) int {
	d := s.get(dir)
	if d == nil {
		return 0
	}
	if !includeNested {
		return len(d.children)
	}
	total := 0
	for _, id := range d.children {
		total += 1 + s.Count(id, true)
	}
	return total
}

// Parent は id が所属するディレクトリを返します。ルートでは false を返します。
func (s *Store) Parent(id NodeID) (NodeID, bool) {
	n := s.get(id)
	if n == nil || n.parent.IsZero() {
		return NodeID{}, false
	}
	return n.parent, true
}

// Row は兄弟ノードの中での id の位置を返します。ルートや無効なハンドルでは -1 を返します。
func (s *Store) Row(id NodeID) int {
	n := s.get(id)
	if n == nil || n.parent.IsZero() {
		return -1
	}
	p := s.get(n.parent)
	if p == nil {
		return -1
	}
	for i, c := range p.children {
		if c == id {
			return i
		}
	}
	return -1
}

// Path はルートから id までの名前を "/" で連結したパスを返します
func (s *Store) Path(id NodeID) string {
	var names []string
	for cur := id; !cur.IsZero(); {
		n := s.get(cur)
		if n == nil {
			return ""
		}
		names = append(names, n.name)
		cur = n.parent
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, "/")
}

// Release は id とその子孫を全て解放します。
// 親を持つ場合は親の子リストから取り除きます。解放後、それらを指すハンドルは全て無効になります。
func (s *Store) Release(id NodeID) error {
	n := s.get(id)
	if n == nil {
		return fmt.Errorf("解放するノード %s: %w", id, ErrStaleNode)
	}
	if p := s.get(n.parent); p != nil {
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}

	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := &s.slots[cur.slot]
		stack = append(stack, c.children...)
		s.slots[cur.slot] = slot{generation: c.generation}
		s.free = append(s.free, cur.slot)
	}
	return nil
}
