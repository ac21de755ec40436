package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Tables the API reads from.
var Tables = []string{"workouts", "exercises", "sets", "sleep_logs", "weight_logs"}

type Column struct {
	Name     string
	DataType string
}

type TableReport struct {
	Name    string
	Exists  bool
	Columns []Column
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// CheckTables reports, for each expected table, whether it exists in the public schema and its columns.
func CheckTables(ctx context.Context, db querier) ([]TableReport, error) {
	reports := make([]TableReport, 0, len(Tables))
	for _, table := range Tables {
		report := TableReport{Name: table}

		if err := db.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)`, table,
		).Scan(&report.Exists); err != nil {
			return nil, fmt.Errorf("check table %s: %w", table, err)
		}

		if report.Exists {
			cols, err := tableColumns(ctx, db, table)
			if err != nil {
				return nil, err
			}
			report.Columns = cols
		}

		reports = append(reports, report)
	}
	return reports, nil
}

func tableColumns(ctx context.Context, db querier, table string) ([]Column, error) {
	rows, err := db.Query(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position`, table,
	)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.DataType); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns of %s: %w", table, err)
	}
	return cols, nil
}

// Truncate empties every domain table. Used by integration tests.
func Truncate(ctx context.Context, db querier) error {
	_, err := db.Exec(ctx, `TRUNCATE sets, workouts, exercises, sleep_logs, weight_logs RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
