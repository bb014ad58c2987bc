package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-seqview/internal/record"
)

// ReplaceFeatures replaces all features of chrom with features, keeping their
// order. The old rows are kept if any append fails.
func (s *Store) ReplaceFeatures(chrom string, features []record.Feature) error {
	return s.inTx(func(ctx context.Context, conn *sql.Conn) error {
		return replaceFeatures(ctx, conn, chrom, features)
	})
}

// ImportFeatures replaces the features of chrom and records src as their
// source in a single transaction.
func (s *Store) ImportFeatures(chrom string, src FileFingerprint, features []record.Feature) error {
	return s.inTx(func(ctx context.Context, conn *sql.Conn) error {
		if err := replaceFeatures(ctx, conn, chrom, features); err != nil {
			return err
		}
		return recordImport(ctx, conn, chrom, src, len(features))
	})
}

// inTx runs fn inside BEGIN/COMMIT on one connection, so the appender and
// plain statements share the transaction.
func (s *Store) inTx(fn func(ctx context.Context, conn *sql.Conn) error) error {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(ctx, conn); err != nil {
		if _, rbErr := conn.ExecContext(ctx, "ROLLBACK"); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func replaceFeatures(ctx context.Context, conn *sql.Conn, chrom string, features []record.Feature) error {
	if _, err := conn.ExecContext(ctx, "DELETE FROM features WHERE chrom=?", chrom); err != nil {
		return fmt.Errorf("clear features: %w", err)
	}
	if len(features) == 0 {
		return nil
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "features")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}

	for i, f := range features {
		if err := appender.AppendRow(
			chrom, int32(i), int64(f.Start), int64(f.End),
			int8(f.Strand), f.Label, f.Color,
		); err != nil {
			appender.Close()
			return fmt.Errorf("append feature: %w", err)
		}
	}

	// Close flushes the pending rows.
	if err := appender.Close(); err != nil {
		return fmt.Errorf("flush features: %w", err)
	}
	return nil
}

// Features returns the features of chrom in import order.
func (s *Store) Features(chrom string) ([]record.Feature, error) {
	rows, err := s.db.Query(`SELECT start_pos, end_pos, strand, label, color
		FROM features
		WHERE chrom=?
		ORDER BY ord`, chrom)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	var features []record.Feature
	for rows.Next() {
		var (
			start, end int64
			strand     int8
			f          record.Feature
		)
		if err := rows.Scan(&start, &end, &strand, &f.Label, &f.Color); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		f.Start = int(start)
		f.End = int(end)
		f.Strand = record.Strand(strand)
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return features, nil
}

// Chromosomes returns the chromosomes that have features, sorted.
func (s *Store) Chromosomes() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT chrom FROM features ORDER BY chrom")
	if err != nil {
		return nil, fmt.Errorf("query chromosomes: %w", err)
	}
	defer rows.Close()

	var chroms []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan chromosome: %w", err)
		}
		chroms = append(chroms, c)
	}
	return chroms, rows.Err()
}
