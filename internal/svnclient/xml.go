package svnclient

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/svnplot/schema"
)

// xmlLog mirrors the output of 'svn log --xml -v'.
type xmlLog struct {
	Entries []xmlLogEntry `xml:"logentry"`
}

type xmlLogEntry struct {
	Revision int64     `xml:"revision,attr"`
	Author   *string   `xml:"author"`
	Date     *string   `xml:"date"`
	Message  string    `xml:"msg"`
	Paths    []xmlPath `xml:"paths>path"`
}

type xmlPath struct {
	Action       string `xml:"action,attr"`
	Kind         string `xml:"kind,attr"`
	CopyFromPath string `xml:"copyfrom-path,attr"`
	CopyFromRev  int64  `xml:"copyfrom-rev,attr"`
	Path         string `xml:",chardata"`
}

// xmlInfo mirrors the output of 'svn info --xml'.
type xmlInfo struct {
	Entries []struct {
		Revision int64  `xml:"revision,attr"`
		URL      string `xml:"url"`
		Root     string `xml:"repository>root"`
		Commit   struct {
			Revision int64 `xml:"revision,attr"`
		} `xml:"commit"`
	} `xml:"entry"`
}

// parseLog decodes 'svn log --xml' output into log entries.
func parseLog(data []byte) ([]*schema.LogEntry, error) {
	var log xmlLog
	if err := xml.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("failed to parse svn log output: %w", err)
	}

	entries := make([]*schema.LogEntry, 0, len(log.Entries))
	for _, e := range log.Entries {
		entries = append(entries, e.toEntry())
	}
	return entries, nil
}

// toEntry converts one logentry element. Entries that carry neither a date, an
// author nor changed paths are unreadable and marked invalid.
func (e xmlLogEntry) toEntry() *schema.LogEntry {
	entry := &schema.LogEntry{Revision: e.Revision}
	if e.Date == nil && e.Author == nil && len(e.Paths) == 0 {
		return entry
	}

	entry.Valid = true
	entry.Message = e.Message
	if e.Author != nil {
		entry.Author = strings.TrimSpace(*e.Author)
	}
	if e.Date != nil {
		// Unparseable dates are stored as the zero time.
		if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(*e.Date)); err == nil {
			entry.Date = t.UTC()
		}
	}

	entry.Changes = make([]schema.ChangeRecord, 0, len(e.Paths))
	for _, p := range e.Paths {
		entry.Changes = append(entry.Changes, p.toRecord())
	}
	return entry
}

func (p xmlPath) toRecord() schema.ChangeRecord {
	rec := schema.ChangeRecord{
		Path: strings.TrimSpace(p.Path),
		Type: schema.ChangeType(strings.ToUpper(p.Action)),
		Kind: parseKind(p.Kind),
	}
	if p.CopyFromPath != "" && p.CopyFromRev > 0 {
		rec.CopyFrom = &schema.CopySource{Path: p.CopyFromPath, Revision: p.CopyFromRev}
	}
	return rec
}

func parseKind(kind string) schema.PathKind {
	switch kind {
	case "file":
		return schema.FileKind
	case "dir":
		return schema.DirKind
	default:
		return schema.UnknownKind
	}
}

// parseInfo decodes 'svn info --xml' output and returns the repository root,
// the entry revision and the last changed revision.
func parseInfo(data []byte) (root string, revision, lastChanged int64, err error) {
	var info xmlInfo
	if err := xml.Unmarshal(data, &info); err != nil {
		return "", 0, 0, fmt.Errorf("failed to parse svn info output: %w", err)
	}
	if len(info.Entries) == 0 {
		return "", 0, 0, fmt.Errorf("svn info returned no entries")
	}
	e := info.Entries[0]
	return strings.TrimRight(e.Root, "/"), e.Revision, e.Commit.Revision, nil
}
