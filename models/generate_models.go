package models

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Maintenance modes driven by environment variables in main.go:

GENERATE_MODELS=true migrates the schema, prints the column mismatch report and writes
typed query helpers for Movie, Director and Genre to ./generated.

GENERATE_COLUMN_REPORT=true only prints the report: for every table, the database
columns that no struct field maps to via a `column:` gorm tag.
*/

// Migrate creates or alters the movies, directors and genres tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	db = db.Session(&gorm.Session{
		Logger:                 logger.Default.LogMode(logger.Info),
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	log.Info().Msg("Migrating models...")
	if err := Migrate(db); err != nil {
		return err
	}

	report, err := GenerateColumnMismatchReport(db)
	if err != nil {
		return err
	}
	report.Log()

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Director{}, Genre{}, Movie{})
	g.Execute()

	log.Info().Str("outPath", outPath).Msg("Model generation complete")
	return nil
}

// ColumnMismatchReport lists database columns without a matching model field
type ColumnMismatchReport struct {
	Mismatches    map[string][]string
	MissingTables []string
}

func (r ColumnMismatchReport) Total() int {
	total := 0
	for _, cols := range r.Mismatches {
		total += len(cols)
	}
	return total
}

func (r ColumnMismatchReport) Log() {
	for _, table := range r.MissingTables {
		log.Warn().Str("table", table).Msg("table does not exist yet")
	}
	for table, cols := range r.Mismatches {
		if len(cols) == 0 {
			continue
		}
		log.Warn().Str("table", table).Strs("columns", cols).Msg("columns not accounted for in model")
	}
	log.Info().Int("total", r.Total()).Msg("column mismatch report done")
}

// GenerateColumnMismatchReport compares live table columns with the model structs
func GenerateColumnMismatchReport(db *gorm.DB) (ColumnMismatchReport, error) {
	report := ColumnMismatchReport{Mismatches: map[string][]string{}}

	tables := tableModels()
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, tableName := range names {
		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			return report, err
		}
		if dbColumns == nil {
			report.MissingTables = append(report.MissingTables, tableName)
			continue
		}
		report.Mismatches[tableName] = findColumnMismatches(dbColumns, getModelFields(tables[tableName]))
	}

	return report, nil
}

// getTableColumns returns nil without error when the table is absent
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	migrator := db.Migrator()
	if !migrator.HasTable(tableName) {
		return nil, nil
	}

	columnTypes, err := migrator.ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}

	columns := make([]string, 0, len(columnTypes))
	for _, ct := range columnTypes {
		columns = append(columns, ct.Name())
	}
	return columns, nil
}

// getModelFields collects the `column:` names declared in gorm tags
func getModelFields(model any) []string {
	var fields []string
	t := reflect.TypeOf(model)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		if columnName := extractColumnNameFromGormTag(field.Tag.Get("gorm")); columnName != "" {
			fields = append(fields, columnName)
		}
	}

	return fields
}

func extractColumnNameFromGormTag(gormTag string) string {
	for _, part := range strings.Split(gormTag, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "column:") {
			return strings.TrimPrefix(part, "column:")
		}
	}
	return ""
}

func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	mismatches := []string{}
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}

	return mismatches
}
