package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScript(row rowScanner) (Script, error) {
	var s Script
	var description, tags, notes sql.NullString
	var createdAtStr, modifiedAtStr string
	err := row.Scan(&s.ID, &s.Name, &s.Category, &description, &tags, &s.Code, &notes, &createdAtStr, &modifiedAtStr, &s.Version)
	if err != nil {
		return Script{}, err
	}
	if description.Valid {
		s.Description = description.String
	}
	if notes.Valid {
		s.Notes = notes.String
	}
	s.Tags = decodeTags(tags.String)
	s.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAtStr)
	s.ModifiedAt, _ = time.Parse(time.RFC3339Nano, modifiedAtStr)
	return s, nil
}

func encodeTags(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func decodeTags(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		return nil
	}
	return out
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
