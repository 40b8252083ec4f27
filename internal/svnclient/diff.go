package svnclient

import (
	"bufio"
	"bytes"
	"path"
	"strings"
)

// DefaultBinaryExtensions lists file extensions whose diffs are never counted.
var DefaultBinaryExtensions = []string{
	"doc", "xls", "ppt", "docx", "xlsx", "pptx", "dot", "dotx", "ods", "odm", "odt", "ott", "pdf",
	"o", "a", "obj", "lib", "dll", "so", "exe",
	"jar", "zip", "z", "gz", "tar", "rar", "7z",
	"pdb", "idb", "ilk", "bsc", "ncb", "sbr", "pch",
	"bmp", "dib", "jpg", "jpeg", "png", "gif", "ico", "pcd", "wmf", "emf", "xcf", "tiff", "xpm",
	"gho", "mp3", "wma", "wmv", "wav", "avi",
}

const binaryMarker = "Cannot display: file marked as a binary type."

// countDiffLines counts added and deleted content lines in unified diff output.
// File headers and property change sections are skipped. A file's "---" and
// "+++" headers only come before its first hunk.
func countDiffLines(diff []byte) (added, deleted int) {
	scanner := bufio.NewScanner(bytes.NewReader(diff))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	inProps, inHunk := false, false
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "Index: "):
			inProps, inHunk = false, false
		case strings.HasPrefix(line, "Property changes on: "):
			inProps = true
		case inProps:
		case strings.HasPrefix(line, "@@"):
			inHunk = true
		case !inHunk && (strings.HasPrefix(line, "+++ ") || strings.HasPrefix(line, "--- ")):
		case strings.HasPrefix(line, binaryMarker):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			deleted++
		}
	}
	return added, deleted
}

// isBinaryPath reports whether p has one of the given binary extensions.
func isBinaryPath(p string, exts map[string]struct{}) bool {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
	if ext == "" {
		return false
	}
	_, ok := exts[ext]
	return ok
}
