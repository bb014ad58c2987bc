package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// RecordImport stores the source fingerprint of the last import for chrom.
func (s *Store) RecordImport(chrom string, src FileFingerprint, featureCount int) error {
	return s.inTx(func(ctx context.Context, conn *sql.Conn) error {
		return recordImport(ctx, conn, chrom, src, featureCount)
	})
}

func recordImport(ctx context.Context, conn *sql.Conn, chrom string, src FileFingerprint, featureCount int) error {
	if _, err := conn.ExecContext(ctx, "DELETE FROM imports WHERE chrom=?", chrom); err != nil {
		return fmt.Errorf("clear import record: %w", err)
	}
	_, err := conn.ExecContext(ctx, `INSERT INTO imports VALUES (?, ?, ?, ?, ?)`,
		chrom, src.Path, src.Size, src.ModTime.UTC().Format(time.RFC3339Nano), int32(featureCount))
	if err != nil {
		return fmt.Errorf("insert import record: %w", err)
	}
	return nil
}

// ImportCurrent reports whether chrom was last imported from a file identical to src.
func (s *Store) ImportCurrent(chrom string, src FileFingerprint) (bool, error) {
	var (
		path, modtime string
		size          int64
	)
	err := s.db.QueryRow(`SELECT source_path, source_size, source_modtime FROM imports WHERE chrom=?`, chrom).
		Scan(&path, &size, &modtime)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query import record: %w", err)
	}
	return path == src.Path && size == src.Size &&
		modtime == src.ModTime.UTC().Format(time.RFC3339Nano), nil
}
