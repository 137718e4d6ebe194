package datasource

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/orgweave/orgweave/pkg/loader"
	"github.com/orgweave/orgweave/pkg/model"
)

// SQLiteReader provides read access to an orgweave SQLite database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	// Open in read-only mode with various pragmas for read performance
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&_journal_mode=WAL", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		db.Exec(pragma)
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadDataset reads all organizations and relationships from the database.
// Rows pass through the same sanitization as JSON documents, so duplicate
// ids, invalid records, and dangling references are handled identically
// regardless of where the data came from.
func (r *SQLiteReader) LoadDataset(opts loader.ParseOptions) (*model.Dataset, error) {
	orgs, err := r.loadOrganizations()
	if err != nil {
		return nil, err
	}
	rels, err := r.loadRelationships()
	if err != nil {
		return nil, err
	}
	raw := &model.Dataset{
		Organizations: orgs,
		Relationships: rels,
	}
	return loader.SanitizeDataset(raw, opts), nil
}

func (r *SQLiteReader) loadOrganizations() ([]model.Organization, error) {
	query := `
		SELECT
			id, name, type, contact_person, email, phone,
			website, description, address, tags
		FROM organizations
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		// Try simpler query if some columns don't exist
		return r.loadOrganizationsSimple()
	}
	defer rows.Close()

	var orgs []model.Organization
	for rows.Next() {
		var org model.Organization
		var typ string
		var contact, email, phone, website, description, address, tagsCSV sql.NullString

		err := rows.Scan(
			&org.ID, &org.Name, &typ, &contact, &email, &phone,
			&website, &description, &address, &tagsCSV,
		)
		if err != nil {
			continue
		}

		org.Type = model.NormalizeOrgType(typ)
		if contact.Valid {
			org.ContactPerson = contact.String
		}
		if email.Valid {
			org.Email = email.String
		}
		if phone.Valid {
			org.Phone = phone.String
		}
		if website.Valid {
			org.Website = website.String
		}
		if description.Valid {
			org.Description = description.String
		}
		if address.Valid {
			org.Address = address.String
		}
		if tagsCSV.Valid {
			org.Tags = parseTagList(tagsCSV.String)
		}

		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}

	return orgs, nil
}

// loadOrganizationsSimple is a fallback for databases with fewer columns
func (r *SQLiteReader) loadOrganizationsSimple() ([]model.Organization, error) {
	query := `SELECT id, name, type FROM organizations ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var orgs []model.Organization
	for rows.Next() {
		var org model.Organization
		var typ string
		if err := rows.Scan(&org.ID, &org.Name, &typ); err != nil {
			continue
		}
		org.Type = model.NormalizeOrgType(typ)
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}

	return orgs, nil
}

func (r *SQLiteReader) loadRelationships() ([]model.Relationship, error) {
	query := `SELECT source, target, type, description FROM relationships`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var rels []model.Relationship
	for rows.Next() {
		var rel model.Relationship
		var description sql.NullString
		if err := rows.Scan(&rel.Source, &rel.Target, &rel.Type, &description); err != nil {
			continue
		}
		if description.Valid {
			rel.Description = description.String
		}
		rels = append(rels, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating relationships: %w", err)
	}

	return rels, nil
}

// CountOrganizations returns the count of organizations
func (r *SQLiteReader) CountOrganizations() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM organizations").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetLastModified returns the most recent update time, if the schema tracks
// one. MAX() strips the column's declared type, so the value may come back as
// a string rather than a time.
func (r *SQLiteReader) GetLastModified() (time.Time, error) {
	var updatedAt any
	err := r.db.QueryRow("SELECT MAX(updated_at) FROM organizations").Scan(&updatedAt)
	if err != nil {
		return time.Time{}, err
	}
	switch v := updatedAt.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		return parseTimestamp(v)
	case []byte:
		return parseTimestamp(string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected updated_at type %T", updatedAt)
	}
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized updated_at value %q", s)
}

// parseTagList splits a comma-separated tag column
func parseTagList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var tags []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			tags = append(tags, item)
		}
	}
	return tags
}
