package schema

import (
	"path"
	"strings"
)

// AuthorLabel returns the display name of an author, mapping an empty name to "unknown".
func AuthorLabel(author string) string {
	if strings.TrimSpace(author) == "" {
		return UnknownAuthor
	}
	return author
}

// AuthorName reverses AuthorLabel for author filters: "unknown" selects
// commits stored without an author.
func AuthorName(label string) string {
	if label == UnknownAuthor {
		return ""
	}
	return label
}

// PathKindOf infers the kind of a path from its trailing separator.
func PathKindOf(p string) PathKind {
	if strings.HasSuffix(p, "/") {
		return DirKind
	}
	return FileKind
}

// DirName strips the last component of p and keeps at most depth directory
// components, rooted at "/".
//
//	DirName("/trunk/src/main.c", 1) == "/trunk"
//	DirName("/trunk/src/main.c", 2) == "/trunk/src"
//	DirName("/README", 3) == "/"
func DirName(p string, depth int) string {
	dir := strings.Trim(path.Dir("/"+strings.TrimPrefix(p, "/")), "/")
	if dir == "" || depth <= 0 {
		return "/"
	}
	comps := strings.Split(dir, "/")
	if len(comps) > depth {
		comps = comps[:depth]
	}
	return "/" + strings.Join(comps, "/")
}

// NormalizePrefix turns a user supplied path filter into a rooted prefix without
// a trailing separator. The repository root yields an empty prefix.
func NormalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return ""
	}
	return prefix
}

// UnderPrefix reports whether p equals prefix or lies below it at a directory boundary.
// An empty prefix matches every path.
func UnderPrefix(p, prefix string) bool {
	if prefix == "" {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
