/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package nedres

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nedlang/nedxml/pkg/nedast"
)

const resolveCacheSize = 1024

var _ INedResources = (*Cache)(nil)

// New creates an empty resource cache. Applications may create any number of
// independent caches; there is no process-wide state.
func New() *Cache {
	resolveCache, err := lru.New[resolveKey, string](resolveCacheSize)
	if err != nil {
		// lru.New fails only for a non-positive size
		panic(err)
	}
	return &Cache{
		files:           make(map[string]*nedast.Element),
		packageNedFiles: make(map[string]*nedast.Element),
		folderPackages:  make(map[string]string),
		types:           make(map[string]*TypeInfo),
		resolveCache:    resolveCache,
	}
}
