package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// Duplicate sentinels. Both are bypassed by supplying a non-empty
// override reason, which is stored with the record for auditing.
var (
	// ErrDuplicateQuote: the quote already appears in the same volume.
	ErrDuplicateQuote = errors.New("quote already used in volume")
	// ErrCrossVolumeDuplicate: the quote appears in a sibling volume of
	// the same series.
	ErrCrossVolumeDuplicate = errors.New("quote already used in series")
)

// QuoteUse is one recorded quote usage.
type QuoteUse struct {
	ID              string    `json:"id"`
	VolumeID        string    `json:"volume_id"`
	SeriesID        string    `json:"series_id"`
	QuoteText       string    `json:"quote_text"`
	Author          string    `json:"author"`
	SourceTitle     string    `json:"source_title"`
	PublicationYear int       `json:"publication_year,omitempty"`
	OverrideReason  string    `json:"override_reason,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

// CreateSeries registers a series. Idempotent: an existing id succeeds
// without overwriting the title.
func (r *Registry) CreateSeries(id, title string) error {
	var exists int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM series WHERE id = ?", id).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}
	_, err := r.db.Exec("INSERT INTO series (id, title, created_at) VALUES (?, ?, ?)",
		id, title, time.Now().UTC().Format(time.RFC3339))
	return err
}

// CreateVolume registers a volume within a series.
func (r *Registry) CreateVolume(id, seriesID string, volumeNumber int, title string) error {
	_, err := r.db.Exec(`
		INSERT INTO volumes (id, series_id, volume_number, title, parent_volume_id, created_at)
		VALUES (?, ?, ?, ?, NULL, ?)`,
		id, seriesID, volumeNumber, title, time.Now().UTC().Format(time.RFC3339))
	return err
}

// CreateChildVolume registers a volume linked to a parent volume, so
// in-depth child volumes can weight retrieval by the parent's quote
// distribution.
func (r *Registry) CreateChildVolume(id, seriesID string, volumeNumber int, title, parentVolumeID string) error {
	_, err := r.db.Exec(`
		INSERT INTO volumes (id, series_id, volume_number, title, parent_volume_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, seriesID, volumeNumber, title, parentVolumeID, time.Now().UTC().Format(time.RFC3339))
	return err
}

// RecordQuoteUse records a quote used in the given volume.
//
// A within-volume duplicate returns ErrDuplicateQuote; a duplicate in a
// sibling volume of the same series returns ErrCrossVolumeDuplicate. A
// non-empty overrideReason bypasses both checks.
func (r *Registry) RecordQuoteUse(volumeID, seriesID, quoteText, author, sourceTitle string, publicationYear int, overrideReason string) error {
	var withinVolID string
	err := r.db.QueryRow(
		"SELECT id FROM quote_uses WHERE volume_id = ? AND quote_text = ? LIMIT 1",
		volumeID, quoteText,
	).Scan(&withinVolID)
	withinDup := err == nil
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if withinDup && overrideReason == "" {
		return fmt.Errorf("volume %q: %w", volumeID, ErrDuplicateQuote)
	}

	if !withinDup {
		var crossVolID string
		err := r.db.QueryRow(
			"SELECT volume_id FROM quote_uses WHERE series_id = ? AND quote_text = ? AND volume_id != ? LIMIT 1",
			seriesID, quoteText, volumeID,
		).Scan(&crossVolID)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
		if err == nil && overrideReason == "" {
			return fmt.Errorf("series %q (volume %q): %w", seriesID, crossVolID, ErrCrossVolumeDuplicate)
		}
	}

	_, err = r.db.Exec(`
		INSERT INTO quote_uses (id, volume_id, series_id, quote_text, author, source_title, publication_year, override_reason, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), volumeID, seriesID, quoteText, author, sourceTitle,
		publicationYear, overrideReason, time.Now().UTC().Format(time.RFC3339))
	return err
}

// RecordScriptureUse records a scripture reference used in the volume.
// Non-blocking: the record is always stored. A repeat of the same
// reference and translation within the volume returns a warning string.
func (r *Registry) RecordScriptureUse(volumeID, reference, translation string) (string, error) {
	var existing int
	if err := r.db.QueryRow(
		"SELECT COUNT(*) FROM scripture_uses WHERE volume_id = ? AND reference = ? AND translation = ?",
		volumeID, reference, translation,
	).Scan(&existing); err != nil {
		return "", err
	}

	_, err := r.db.Exec(`
		INSERT INTO scripture_uses (id, volume_id, reference, translation, added_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), volumeID, reference, translation, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}

	if existing > 0 {
		return fmt.Sprintf("Scripture %q (%s) already used in volume %q. Review before export.", reference, translation, volumeID), nil
	}
	return "", nil
}

// AuthorDistribution returns per-author quote counts for a volume.
func (r *Registry) AuthorDistribution(volumeID string) (map[string]int, error) {
	return r.distribution(volumeID, "author")
}

// ParentDistribution returns a per-value count of the given attribute
// ("author" or "source_title") for a parent volume, used by child
// volumes to weight their retrieval queries.
func (r *Registry) ParentDistribution(parentVolumeID, attribute string) (map[string]int, error) {
	switch attribute {
	case "author", "source_title":
	default:
		return nil, fmt.Errorf("unsupported attribute %q; supported: author, source_title", attribute)
	}
	return r.distribution(parentVolumeID, attribute)
}

func (r *Registry) distribution(volumeID, column string) (map[string]int, error) {
	rows, err := r.db.Query(
		"SELECT "+column+", COUNT(id) FROM quote_uses WHERE volume_id = ? GROUP BY "+column,
		volumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var value string
		var count int
		if err := rows.Scan(&value, &count); err != nil {
			return nil, err
		}
		result[value] = count
	}
	return result, rows.Err()
}

// Backup copies the registry database file to backupPath. The volume id
// is checked first so a typo cannot produce a silent no-op backup.
func (r *Registry) Backup(volumeID, backupPath string) error {
	var exists int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM volumes WHERE id = ?", volumeID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("cannot backup: volume %q not found in registry", volumeID)
	}
	if r.dbPath == ":memory:" {
		return errors.New("cannot backup an in-memory registry")
	}

	src, err := os.Open(r.dbPath)
	if err != nil {
		return fmt.Errorf("opening registry database: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying registry database: %w", err)
	}
	return dst.Close()
}
