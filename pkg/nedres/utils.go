/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package nedres

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// canonicalize resolves p against the current working directory and returns
// the canonical form: absolute, '/'-separated, no '.' or '..' components, no
// trailing slash.
func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return path.Clean(filepath.ToSlash(abs)), nil
}

// isPathPrefixOf reports whether path equals prefix or starts with
// prefix + "/". Both arguments must be canonical, so that e.g. "/tmp/foo" is
// not taken for a prefix of "/tmp/foolish".
func isPathPrefixOf(prefix, p string) bool {
	if len(p) == len(prefix) {
		return p == prefix
	}
	if len(p) < len(prefix) {
		return false
	}
	return strings.HasPrefix(p, prefix) && p[len(prefix)] == '/'
}

// pushDir changes the working directory and returns a closure restoring the
// previous one. The caller must defer the closure so that the directory is
// restored on every exit path.
func pushDir(dir string) (restore func(), err error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(dir); err != nil {
		return nil, err
	}
	return func() { _ = os.Chdir(prev) }, nil
}

// isPackageNedFile reports whether the file is a package marker.
func isPackageNedFile(fileName string) bool {
	return fileName == packageNedName || strings.HasSuffix(fileName, "/"+packageNedName)
}

// splitExcludedPackages parses the ';'-separated excluded package list,
// dropping empty items. The root package "" cannot be excluded.
func splitExcludedPackages(s string) []string {
	var result []string
	for _, pkg := range strings.Split(s, ";") {
		pkg = strings.TrimSpace(pkg)
		if pkg != "" {
			result = append(result, pkg)
		}
	}
	return result
}

// parentPackage returns the package name with its last segment removed, ""
// for a single-segment or root package.
func parentPackage(pkg string) string {
	if i := strings.LastIndexByte(pkg, '.'); i >= 0 {
		return pkg[:i]
	}
	return ""
}

// joinPackage joins two package names with '.', tolerating either being
// empty.
func joinPackage(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "." + b
}
