package packagetree

import "PackScope/internal/domain/model"

// Skeleton はパッケージルート直下の初期構成を作成する関数です
type Skeleton func(store *model.Store, root model.NodeID) error

// DebianSkeleton は Debian パッケージの初期構成を作成します。
//
//	<root>
//	├── DEBIAN
//	│   └── control
//	└── usr
//	    └── bin
func DebianSkeleton(store *model.Store, root model.NodeID) error {
	debian, err := store.Add(root, store.NewDirectory("DEBIAN"))
	if err != nil {
		return err
	}
	if _, err := store.Add(debian, store.NewLeaf("control", model.FileSignatureInfo{Category: model.CategoryOther})); err != nil {
		return err
	}
	usr, err := store.Add(root, store.NewDirectory("usr"))
	if err != nil {
		return err
	}
	_, err = store.Add(usr, store.NewDirectory("bin"))
	return err
}
