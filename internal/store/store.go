package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Store is the sole owner of the scripts collection. All access to script
// records goes through it.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Script is the persisted unit of data. Code bodies may carry mustache-style
// placeholder tokens ({{TagName}}); the store does not interpret them.
type Script struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Code        string    `json:"code"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
	Version     int       `json:"version"`
}

// Draft carries the caller-supplied fields of a script. The store assigns
// id, timestamps and version itself.
type Draft struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Code        string   `json:"code"`
	Notes       string   `json:"notes"`
}

func (d Draft) normalize() (Draft, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return d, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	d.Category = strings.TrimSpace(d.Category)
	if d.Category == "" {
		return d, &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if strings.TrimSpace(d.Code) == "" {
		return d, &ValidationError{Field: "code", Reason: "must not be empty"}
	}
	d.Description = strings.TrimSpace(d.Description)
	d.Notes = strings.TrimSpace(d.Notes)
	var tags []string
	for _, tag := range d.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	d.Tags = tags
	return d, nil
}

// Add persists a new script. CreatedAt and ModifiedAt are set to now,
// Version starts at 1, and the store assigns the next free id.
func (s *Store) Add(ctx context.Context, draft Draft) (Script, error) {
	draft, err := draft.normalize()
	if err != nil {
		return Script{}, err
	}

	now := time.Now().UTC()
	tagsJSON, err := encodeTags(draft.Tags)
	if err != nil {
		return Script{}, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scripts (name, category, description, tags, code, notes, created_at, modified_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, draft.Name, draft.Category, nullString(draft.Description), tagsJSON, draft.Code, nullString(draft.Notes),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return Script{}, persistErr("insert script", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Script{}, persistErr("insert script", err)
	}

	return Script{
		ID:          id,
		Name:        draft.Name,
		Category:    draft.Category,
		Description: draft.Description,
		Tags:        draft.Tags,
		Code:        draft.Code,
		Notes:       draft.Notes,
		CreatedAt:   now,
		ModifiedAt:  now,
		Version:     1,
	}, nil
}

// Update replaces the stored script under id. CreatedAt is preserved from
// the existing record, ModifiedAt is set to now and Version is bumped by
// one. A missing id fails with ErrNotFound before anything is written.
//
// The read and the write are separate statements; two concurrent updates
// to the same id race in between and the later write wins.
func (s *Store) Update(ctx context.Context, id int64, draft Draft) (Script, error) {
	draft, err := draft.normalize()
	if err != nil {
		return Script{}, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return Script{}, err
	}
	if existing == nil {
		return Script{}, ErrNotFound
	}

	now := time.Now().UTC()
	tagsJSON, err := encodeTags(draft.Tags)
	if err != nil {
		return Script{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE scripts
		SET name = ?, category = ?, description = ?, tags = ?, code = ?, notes = ?, modified_at = ?, version = ?
		WHERE id = ?
	`, draft.Name, draft.Category, nullString(draft.Description), tagsJSON, draft.Code, nullString(draft.Notes),
		now.Format(time.RFC3339Nano), existing.Version+1, id)
	if err != nil {
		return Script{}, persistErr("update script", err)
	}

	return Script{
		ID:          id,
		Name:        draft.Name,
		Category:    draft.Category,
		Description: draft.Description,
		Tags:        draft.Tags,
		Code:        draft.Code,
		Notes:       draft.Notes,
		CreatedAt:   existing.CreatedAt,
		ModifiedAt:  now,
		Version:     existing.Version + 1,
	}, nil
}

// Delete removes the script under id. Deleting an id that does not exist
// is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scripts WHERE id = ?`, id); err != nil {
		return persistErr("delete script", err)
	}
	return nil
}

// Get returns the script under id, or nil when no such record exists.
func (s *Store) Get(ctx context.Context, id int64) (*Script, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, description, tags, code, notes, created_at, modified_at, version
		FROM scripts WHERE id = ?
	`, id)
	script, err := scanScript(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, persistErr("get script", err)
	}
	return &script, nil
}

// ListAll returns every stored script. Order is undefined; callers sort.
func (s *Store) ListAll(ctx context.Context) ([]Script, error) {
	return s.list(ctx, `
		SELECT id, name, category, description, tags, code, notes, created_at, modified_at, version
		FROM scripts
	`)
}

// ListByCategory returns scripts whose category equals the argument
// exactly (case-sensitive), served by the category index.
func (s *Store) ListByCategory(ctx context.Context, category string) ([]Script, error) {
	return s.list(ctx, `
		SELECT id, name, category, description, tags, code, notes, created_at, modified_at, version
		FROM scripts WHERE category = ?
	`, category)
}

// Search returns scripts where the query occurs case-insensitively in the
// name, description, code, category or any tag. The empty query matches
// every record; callers that want "empty means list all" semantics get
// them for free, and callers that want something else special-case it
// upstream.
func (s *Store) Search(ctx context.Context, query string) ([]Script, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)

	var out []Script
	for _, script := range all {
		if script.matches(needle) {
			out = append(out, script)
		}
	}
	return out, nil
}

func (s Script) matches(needle string) bool {
	if strings.Contains(strings.ToLower(s.Name), needle) ||
		strings.Contains(strings.ToLower(s.Description), needle) ||
		strings.Contains(strings.ToLower(s.Code), needle) ||
		strings.Contains(strings.ToLower(s.Category), needle) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// ClearAll removes every script. Reset hook, not part of the normal flow.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scripts`); err != nil {
		return persistErr("clear scripts", err)
	}
	return nil
}

// Count returns the number of stored scripts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scripts`).Scan(&n); err != nil {
		return 0, persistErr("count scripts", err)
	}
	return n, nil
}

// CountByCategory returns per-category record counts.
func (s *Store) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM scripts GROUP BY category`)
	if err != nil {
		return nil, persistErr("count by category", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, persistErr("scan category count", err)
		}
		out[category] = n
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate category counts", err)
	}
	return out, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Script, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list scripts", err)
	}
	defer rows.Close()

	var out []Script
	for rows.Next() {
		script, err := scanScript(rows)
		if err != nil {
			return nil, persistErr("scan script", err)
		}
		out = append(out, script)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate scripts", err)
	}
	return out, nil
}
