package main

import (
	sideindex "github.com/murphybt/massim-2020/internal/persistence/index"
)

// sqliteIndex is a thin alias so main.go need not import the index package
// under a name that collides with the standard flag/log vocabulary.
type sqliteIndex = sideindex.Index

func openSideIndex(path string) (*sqliteIndex, error) {
	return sideindex.Open(path)
}
