package persistence

import (
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.ChartOfAccountModel{},
		&models.AccountingPeriodModel{},
		&models.JournalEntryModel{},
		&models.JournalLineModel{},
		&models.PostingRuleModel{},
		&models.PostingRuleLineModel{},
		&models.OutboxEntryModel{},
	)
	require.NoError(t, err)

	return db
}

func newTestPeriod(t *testing.T, name string, start, end time.Time) *accounting.AccountingPeriod {
	t.Helper()
	dateRange, err := valueobject.NewDateRange(start, end)
	require.NoError(t, err)
	period, err := accounting.NewAccountingPeriod(name, dateRange)
	require.NoError(t, err)
	return period
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
