package service

import (
	"context"
	"fmt"

	"yatube/internal/repository"
)

// ExpectedTables is the number of application tables created by migrations.
const ExpectedTables = 5

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Tables   int    `json:"tables"`
}

type TablesService interface {
	Health(ctx context.Context) (*HealthReport, error)
}

type tablesService struct {
	db         Pinger
	tablesRepo repository.TablesRepository
}

func NewTablesService(db Pinger, tablesRepo repository.TablesRepository) TablesService {
	return &tablesService{db: db, tablesRepo: tablesRepo}
}

// Health reports "ok" only when the database answers and every table exists.
// The report is returned together with the error so callers can still show it.
func (t *tablesService) Health(ctx context.Context) (*HealthReport, error) {
	report := &HealthReport{Status: "error", Database: "unavailable"}

	if err := t.db.PingContext(ctx); err != nil {
		return report, fmt.Errorf("база данных недоступна: %w", err)
	}
	report.Database = "ok"

	countTables, err := t.tablesRepo.CountTablesDB(ctx)
	if err != nil {
		return report, err
	}
	report.Tables = countTables

	if countTables < ExpectedTables {
		return report, fmt.Errorf("найдено %d из %d таблиц, миграции не применены", countTables, ExpectedTables)
	}

	report.Status = "ok"
	return report, nil
}
