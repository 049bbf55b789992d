package model

import (
	"errors"
	"testing"
)

// newDebianStore は root → {DEBIAN → {control}, usr → {bin}} の木を作ります
func newDebianStore(t *testing.T) (*Store, NodeID) {
	t.Helper()
	s := NewStore()
	root := s.NewDirectory("pkg")
	debian := mustAdd(t, s, root, s.NewDirectory("DEBIAN"))
	mustAdd(t, s, debian, s.NewLeaf("control", FileSignatureInfo{}))
	usr := mustAdd(t, s, root, s.NewDirectory("usr"))
	mustAdd(t, s, usr, s.NewDirectory("bin"))
	return s, root
}

func mustAdd(t *testing.T, s *Store, dir, child NodeID) NodeID {
	t.Helper()
	id, err := s.Add(dir, child)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return id
}

func TestStore_AddAndPath(t *testing.T) {
	s, root := newDebianStore(t)

	usr, ok := s.ChildByName(root, "usr")
	if !ok {
		t.Fatal("usr が見つかりません")
	}
	bin, ok := s.ChildByName(usr, "bin")
	if !ok {
		t.Fatal("usr/bin が見つかりません")
	}
	if got := s.Path(bin); got != "pkg/usr/bin" {
		t.Errorf("Path() = %q, want %q", got, "pkg/usr/bin")
	}
	if got := s.Path(root); got != "pkg" {
		t.Errorf("Path(root) = %q, want %q", got, "pkg")
	}
	if p, ok := s.Parent(bin); !ok || p != usr {
		t.Errorf("Parent(bin) = %v, %v, want %v", p, ok, usr)
	}
	if _, ok := s.Parent(root); ok {
		t.Error("ルートは親を持たないはずです")
	}
}

func TestStore_Count(t *testing.T) {
	s, root := newDebianStore(t)

	tests := []struct {
		name          string
		includeNested bool
		want          int
	}{
		{name: "直下のみ", includeNested: false, want: 2},
		{name: "子孫全て", includeNested: true, want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Count(root, tt.includeNested); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}

	debian, _ := s.ChildByName(root, "DEBIAN")
	control, _ := s.ChildByName(debian, "control")
	if got := s.Count(control, false); got != 0 {
		t.Errorf("ファイルノードの Count() = %d, want 0", got)
	}
}

func TestStore_ChildByNameReturnsFirstMatch(t *testing.T) {
	s := NewStore()
	root := s.NewDirectory("pkg")
	first := mustAdd(t, s, root, s.NewLeaf("dup", FileSignatureInfo{}))
	second := mustAdd(t, s, root, s.NewDirectory("dup"))
	mustAdd(t, s, root, s.NewDirectory("Dup"))
	mustAdd(t, s, root, s.NewDirectory("dup "))

	if got, _ := s.ChildByName(root, "dup"); got != first {
		t.Errorf("ChildByName() = %v, want first match %v", got, first)
	}
	if got, _ := s.ChildDirectory(root, "dup"); got != second {
		t.Errorf("ChildDirectory() = %v, want %v", got, second)
	}
	if _, ok := s.ChildByName(root, "missing"); ok {
		t.Error("存在しない名前で見つかってはいけません")
	}
	if got := s.Count(root, false); got != 4 {
		t.Errorf("大文字小文字や空白の違いは別の兄弟になるはずです: Count() = %d", got)
	}
}

func TestStore_Row(t *testing.T) {
	s, root := newDebianStore(t)
	for i, id := range s.Children(root) {
		if got := s.Row(id); got != i {
			t.Errorf("Row(%v) = %d, want %d", id, got, i)
		}
	}
	if got := s.Row(root); got != -1 {
		t.Errorf("Row(root) = %d, want -1", got)
	}
}

func TestStore_AddErrors(t *testing.T) {
	s, root := newDebianStore(t)
	debian, _ := s.ChildByName(root, "DEBIAN")
	control, _ := s.ChildByName(debian, "control")

	tests := []struct {
		name    string
		dir     NodeID
		child   func() NodeID
		wantErr error
	}{
		{
			name:    "ファイルへの追加",
			dir:     control,
			child:   func() NodeID { return s.NewDirectory("x") },
			wantErr: ErrNotDirectory,
		},
		{
			name:    "所属済みノードの追加",
			dir:     root,
			child:   func() NodeID { return control },
			wantErr: ErrAlreadyOwned,
		},
		{
			name:    "祖先の追加",
			dir:     debian,
			child:   func() NodeID { return root },
			wantErr: ErrCycle,
		},
		{
			name:    "無効な追加先",
			dir:     NodeID{},
			child:   func() NodeID { return s.NewDirectory("y") },
			wantErr: ErrStaleNode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(tt.dir, tt.child())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStore_ReleaseInvalidatesHandles(t *testing.T) {
	s, root := newDebianStore(t)
	usr, _ := s.ChildByName(root, "usr")
	bin, _ := s.ChildByName(usr, "bin")

	if err := s.Release(usr); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if s.Valid(usr) || s.Valid(bin) {
		t.Error("解放したノードのハンドルは無効になるはずです")
	}
	if got := s.Count(root, false); got != 1 {
		t.Errorf("解放後の Count() = %d, want 1", got)
	}
	if got := s.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}

	// 再利用されたスロットでも古いハンドルは有効にならない
	reused := s.NewDirectory("opt")
	if reused.slot != bin.slot && reused.slot != usr.slot {
		t.Fatalf("解放したスロットが再利用されていません: %v", reused)
	}
	if s.Valid(usr) || s.Valid(bin) {
		t.Error("スロット再利用後も古いハンドルは無効のままのはずです")
	}
	if s.Path(bin) != "" {
		t.Error("無効なハンドルのパスは空のはずです")
	}
	if err := s.Release(usr); !errors.Is(err, ErrStaleNode) {
		t.Errorf("二重解放 error = %v, want %v", err, ErrStaleNode)
	}
}

func TestParseNodeID(t *testing.T) {
	s := NewStore()
	id := s.NewDirectory("pkg")

	got, err := ParseNodeID(id.String())
	if err != nil {
		t.Fatalf("ParseNodeID() error = %v", err)
	}
	if got != id {
		t.Errorf("ParseNodeID() = %v, want %v", got, id)
	}

	for _, in := range []string{"", "1", "a.1", "1.b", "1.0"} {
		if _, err := ParseNodeID(in); err == nil {
			t.Errorf("ParseNodeID(%q) error = nil, want error", in)
		}
	}
}
