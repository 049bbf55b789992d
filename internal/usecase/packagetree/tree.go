// Package packagetree はパッケージのファイル構成を階層ビュー向けのツリーモデルとして提供します
package packagetree

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"PackScope/internal/domain/model"
	"PackScope/internal/infrastructure/imageinfo"
	"PackScope/internal/infrastructure/logging"
)

const headerFormat = "Package name: %s"

var (
	// ErrClosed は破棄済みのツリーを変更しようとしたことを示します
	ErrClosed = errors.New("パッケージツリーは既に破棄されています")
	// ErrInvalidPackageName はパッケージ名がディレクトリ名として使えないことを示します
	ErrInvalidPackageName = errors.New("パッケージ名が不正です")
)

// Observer はツリーの構造変更通知を受け取るインターフェースです。
// BeginInsertRows の呼び出し中に件数を読むと、変更前の状態が見えます。
type Observer interface {
	BeginInsertRows(parent Index, first, last int)
	EndInsertRows()
}

// DimensionProber は画像ファイルの幅と高さを取得するインターフェースです
type DimensionProber interface {
	Dimensions(path string) (int, int, error)
}

// Option は Tree の生成オプションです
type Option func(*Tree)

// WithLogger はロガーを指定します
func WithLogger(logger logging.Logger) Option {
	return func(t *Tree) { t.logger = logger }
}

// WithProber は画像の寸法取得方法を指定します
func WithProber(prober DimensionProber) Option {
	return func(t *Tree) { t.prober = prober }
}

// WithFolderIcon はディレクトリに表示するアイコンを指定します
func WithFolderIcon(icon fyne.Resource) Option {
	return func(t *Tree) { t.folderIcon = icon }
}

// WithSkeleton は初期構成を指定します。nil の場合はルートのみのツリーになります。
func WithSkeleton(skeleton Skeleton) Option {
	return func(t *Tree) { t.skeleton = skeleton }
}

type subscription struct {
	observer Observer
}

// Tree はパッケージルートを所有し、階層ビュー向けのインデックス操作と
// 分類済みファイルの配置を提供します。並行アクセスには対応していません。
type Tree struct {
	store      *model.Store
	root       model.NodeID
	logger     logging.Logger
	prober     DimensionProber
	folderIcon fyne.Resource
	skeleton   Skeleton
	observers  []*subscription
}

// New はパッケージ名をルート名とする新しいツリーを作成します。
// 既定では Debian パッケージの初期構成（DEBIAN/control, usr/bin）を持ちます。
func New(pkgName string, opts ...Option) (*Tree, error) {
	if err := ValidatePackageName(pkgName); err != nil {
		return nil, err
	}

	t := &Tree{
		store:    model.NewStore(),
		logger:   logging.NewNopLogger(),
		prober:   imageinfo.NewProber(),
		skeleton: DebianSkeleton,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.root = t.store.NewDirectory(pkgName)
	if t.skeleton != nil {
		if err := t.skeleton(t.store, t.root); err != nil {
			return nil, fmt.Errorf("初期構成の作成に失敗しました: %w", err)
		}
	}
	return t, nil
}

// ValidatePackageName はパッケージ名がルートディレクトリ名として使えるかを確認します
func ValidatePackageName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: 空です", ErrInvalidPackageName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: パス区切り文字を含んでいます: %q", ErrInvalidPackageName, name)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidPackageName, name)
	}
	return nil
}

// Store はノードストアを返します
func (t *Tree) Store() *model.Store {
	return t.store
}

// Root はパッケージルートのハンドルを返します
func (t *Tree) Root() model.NodeID {
	return t.root
}

// PackageName はルートディレクトリの名前を返します
func (t *Tree) PackageName() string {
	n, ok := t.store.Get(t.root)
	if !ok {
		return ""
	}
	return n.Name
}

// Subscribe は構造変更通知の購読を登録し、購読を解除する関数を返します
func (t *Tree) Subscribe(o Observer) func() {
	s := &subscription{observer: o}
	t.observers = append(t.observers, s)
	return func() {
		for i, cur := range t.observers {
			if cur == s {
				t.observers = append(t.observers[:i:i], t.observers[i+1:]...)
				return
			}
		}
	}
}

func (t *Tree) beginInsertRows(parent Index, first, last int) {
	for _, s := range append([]*subscription(nil), t.observers...) {
		s.observer.BeginInsertRows(parent, first, last)
	}
}

func (t *Tree) endInsertRows() {
	for _, s := range append([]*subscription(nil), t.observers...) {
		s.observer.EndInsertRows()
	}
}

// Close はツリーの全ノードを解放します。以降、既存のインデックスは全て無効になります。
func (t *Tree) Close() error {
	if !t.store.Valid(t.root) {
		return ErrClosed
	}
	if err := t.store.Release(t.root); err != nil {
		return fmt.Errorf("ノードの解放に失敗しました: %w", err)
	}
	t.observers = nil
	return nil
}

// IndexOf はノードを指すインデックスを返します。
// ルートや解放済みのノードには無効なインデックスを返します。
func (t *Tree) IndexOf(id model.NodeID) Index {
	if id == t.root || !t.store.Valid(id) {
		return invalidIndex()
	}
	return Index{row: t.store.Row(id), column: 0, id: id}
}

// resolve はインデックスが指すノードを返します。無効なインデックスはルートを表します。
func (t *Tree) resolve(idx Index) (model.Node, bool) {
	if !idx.IsValid() {
		return t.store.Get(t.root)
	}
	return t.store.Get(idx.id)
}

// HasIndex は parent の下に row, column の位置が存在するかどうかを返します
func (t *Tree) HasIndex(row, column int, parent Index) bool {
	return row >= 0 && column >= 0 && row < t.RowCount(parent) && column < t.ColumnCount(parent)
}

// Index は parent の row 番目の子を指すインデックスを返します。
// parent が無効なインデックスの場合はルートの子を対象にします。範囲外の場合は無効なインデックスを返します。
func (t *Tree) Index(row, column int, parent Index) Index {
	if !t.HasIndex(row, column, parent) {
		return invalidIndex()
	}
	dir, _ := t.resolve(parent)
	child, ok := t.store.Child(dir.ID, row)
	if !ok {
		return invalidIndex()
	}
	return Index{row: row, column: column, id: child}
}

// Parent は idx が所属するディレクトリのインデックスを返します。
// ルート直下のノードやルート自身、無効なインデックスには無効なインデックスを返します。
func (t *Tree) Parent(idx Index) Index {
	if !idx.IsValid() {
		return invalidIndex()
	}
	p, ok := t.store.Parent(idx.id)
	if !ok {
		return invalidIndex()
	}
	return t.IndexOf(p)
}

// RowCount は parent の子の数を返します。ファイルや解放済みのノードでは 0 です。
func (t *Tree) RowCount(parent Index) int {
	n, ok := t.resolve(parent)
	if !ok || !n.IsDir() {
		return 0
	}
	return t.store.Count(n.ID, false)
}

// ColumnCount は常に 1 を返します
func (t *Tree) ColumnCount(Index) int {
	return 1
}

// Kind は idx が指すノードの種別を返します。無効なインデックスではルート（ディレクトリ）の種別です。
func (t *Tree) Kind(idx Index) model.NodeKind {
	n, ok := t.resolve(idx)
	if !ok {
		return 0
	}
	return n.Kind
}

// SignatureInfo は idx が指すファイルノードの分類情報を返します
func (t *Tree) SignatureInfo(idx Index) (model.FileSignatureInfo, bool) {
	if !idx.IsValid() {
		return model.FileSignatureInfo{}, false
	}
	n, ok := t.store.Get(idx.id)
	if !ok || n.Kind != model.KindLeaf {
		return model.FileSignatureInfo{}, false
	}
	return n.Signature, true
}

// Data は role に応じた表示用の値を返します。無効なインデックスや未対応の role では nil です。
func (t *Tree) Data(idx Index, role Role) any {
	if !idx.IsValid() || !t.store.Valid(idx.id) {
		return nil
	}
	switch role {
	case DisplayRole:
		return t.Display(idx)
	case DecorationRole:
		return t.Decoration(idx)
	default:
		return nil
	}
}

// Display はルート名を含むノードのフルパスを返します
func (t *Tree) Display(idx Index) string {
	if !idx.IsValid() {
		return ""
	}
	return t.store.Path(idx.id)
}

// InstallPath はパッケージルートからの相対パスを返します
func (t *Tree) InstallPath(idx Index) string {
	full := t.Display(idx)
	if full == "" {
		return ""
	}
	return strings.TrimPrefix(full, t.PackageName()+"/")
}

// Decoration はディレクトリにはフォルダアイコンを、ファイルには分類情報のアイコンを返します
func (t *Tree) Decoration(idx Index) fyne.Resource {
	n, ok := t.resolve(idx)
	if !ok {
		return nil
	}
	switch n.Kind {
	case model.KindDirectory:
		if t.folderIcon != nil {
			return t.folderIcon
		}
		return theme.FolderIcon()
	case model.KindLeaf:
		return n.Signature.Icon
	default:
		return nil
	}
}

// HeaderData は横方向ヘッダの表示文字列としてパッケージ名を含む見出しを返します
func (t *Tree) HeaderData(section int, orientation Orientation, role Role) any {
	if orientation != Horizontal || role != DisplayRole {
		return nil
	}
	return fmt.Sprintf(headerFormat, t.PackageName())
}

// IndexForPath はパッケージルートからの相対パスに一致するノードのインデックスを返します。
// 途中の階層は配置と同じく同名の最初のディレクトリをたどり、最後の階層のみ種別を問わず最初の子に一致させます。
func (t *Tree) IndexForPath(path string) (Index, bool) {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	cur := t.root
	for i, seg := range segments {
		find := t.store.ChildDirectory
		if i == len(segments)-1 {
			find = t.store.ChildByName
		}
		next, ok := find(cur, seg)
		if !ok {
			return invalidIndex(), false
		}
		cur = next
	}
	if cur == t.root {
		return invalidIndex(), t.store.Valid(cur)
	}
	return t.IndexOf(cur), true
}
