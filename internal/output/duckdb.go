package output

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/mafmerge/internal/merge"
)

// DuckDBWriter stores merge results in a DuckDB database so they can be
// queried directly instead of post-processed from the flat file.
type DuckDBWriter struct {
	db   *sql.DB
	path string
}

// NewDuckDBWriter opens (or creates) a DuckDB database at path and creates
// the result tables, replacing any previous contents.
func NewDuckDBWriter(path string) (*DuckDBWriter, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	w := &DuckDBWriter{db: db, path: path}
	if err := w.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *DuckDBWriter) createSchema() error {
	stmts := []string{
		`CREATE OR REPLACE TABLE mutations (
			project TEXT,
			gene TEXT,
			sample TEXT,
			variant_type TEXT,
			hgvsp TEXT,
			frameshift_start TEXT,
			frameshift_len TEXT
		)`,
		`CREATE OR REPLACE TABLE gene_counts (
			gene TEXT,
			count BIGINT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := w.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// WriteResult stores all records and gene counts of a merge run in a
// single transaction.
func (w *DuckDBWriter) WriteResult(res *merge.Result) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	insRec, err := tx.Prepare(`
		INSERT INTO mutations (project, gene, sample, variant_type, hgvsp,
		                       frameshift_start, frameshift_len)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insRec.Close()

	for _, rec := range res.Records {
		if _, err := insRec.Exec(rec.Project, rec.Gene, rec.Sample,
			rec.VariantType, rec.HGVSp, rec.FrameshiftStart, rec.FrameshiftLen); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	insCount, err := tx.Prepare(`INSERT INTO gene_counts (gene, count) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insCount.Close()

	for _, gc := range res.GeneCounts {
		if _, err := insCount.Exec(gc.Gene, gc.Count); err != nil {
			return fmt.Errorf("insert gene count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RecordCount returns the number of stored mutation records.
func (w *DuckDBWriter) RecordCount() (int, error) {
	var count int
	if err := w.db.QueryRow(`SELECT COUNT(*) FROM mutations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count mutations: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (w *DuckDBWriter) Close() error {
	return w.db.Close()
}
