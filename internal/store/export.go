package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// FormatVersion identifies the library export document shape.
const FormatVersion = "1.0"

// Snapshot is a point-in-time read-only rendering of the whole record set.
// Record ids are informational on export and discarded on re-import.
type Snapshot struct {
	FormatVersion string    `json:"formatVersion"`
	SnapshotID    string    `json:"snapshotId"`
	ExportedAt    time.Time `json:"exportTimestamp"`
	RecordCount   int       `json:"recordCount"`
	Records       []Script  `json:"records"`
}

// ExportAll renders the full record set into a Snapshot without mutating
// anything.
func (s *Store) ExportAll(ctx context.Context) (Snapshot, error) {
	records, err := s.ListAll(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		FormatVersion: FormatVersion,
		SnapshotID:    ulid.Make().String(),
		ExportedAt:    time.Now().UTC(),
		RecordCount:   len(records),
		Records:       records,
	}, nil
}

// ImportAll appends every snapshot record as a new record; original ids
// are discarded so the store re-assigns them. Timestamps and version
// counters travel with the record. Inserts are issued one by one with no
// surrounding transaction: the first failure aborts the batch and is
// returned, but records already inserted stay persisted.
func (s *Store) ImportAll(ctx context.Context, snapshot Snapshot) (int, error) {
	if snapshot.Records == nil {
		return 0, &ValidationError{Field: "records", Reason: "must be a sequence"}
	}

	imported := 0
	for _, record := range snapshot.Records {
		tagsJSON, err := encodeTags(record.Tags)
		if err != nil {
			return imported, err
		}
		version := record.Version
		if version < 1 {
			version = 1
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO scripts (name, category, description, tags, code, notes, created_at, modified_at, version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, record.Name, record.Category, nullString(record.Description), tagsJSON, record.Code, nullString(record.Notes),
			record.CreatedAt.Format(time.RFC3339Nano), record.ModifiedAt.Format(time.RFC3339Nano), version)
		if err != nil {
			return imported, persistErr("import script", err)
		}
		imported++
	}
	return imported, nil
}

const textRule = "' ================================================================"

// RenderText renders one script as a human-readable plain-text document:
// a comment-delimited header, the raw code body, and a usage-notes trailer
// when notes are present. The line-comment marker matches the VBScript
// dialect the stored snippets are written in.
func RenderText(s Script) string {
	var b strings.Builder
	b.WriteString(textRule + "\n")
	fmt.Fprintf(&b, "' Script: %s\n", s.Name)
	fmt.Fprintf(&b, "' Category: %s\n", s.Category)
	if s.Description != "" {
		fmt.Fprintf(&b, "' Description: %s\n", s.Description)
	}
	if len(s.Tags) > 0 {
		fmt.Fprintf(&b, "' Tags: %s\n", strings.Join(s.Tags, ", "))
	}
	fmt.Fprintf(&b, "' Created: %s\n", s.CreatedAt.Format("Jan 2, 2006 15:04"))
	fmt.Fprintf(&b, "' Modified: %s\n", s.ModifiedAt.Format("Jan 2, 2006 15:04"))
	b.WriteString(textRule + "\n\n")
	b.WriteString(s.Code)
	if s.Notes != "" {
		b.WriteString("\n\n" + textRule + "\n")
		b.WriteString("' USAGE NOTES:\n")
		fmt.Fprintf(&b, "' %s\n", strings.ReplaceAll(s.Notes, "\n", "\n' "))
		b.WriteString(textRule + "\n")
	}
	return b.String()
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// SanitizeFilename maps a script name onto a safe download filename stem,
// capped at 50 characters.
func SanitizeFilename(name string) string {
	out := unsafeFilename.ReplaceAllString(name, "_")
	if len(out) > 50 {
		out = out[:50]
	}
	return out
}
