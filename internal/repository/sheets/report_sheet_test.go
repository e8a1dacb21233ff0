package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

func TestReportRowMatchesRange(t *testing.T) {
	row := reportRow(models.DailyReport{
		UserID:         "u-1",
		Date:           "2024-05-10",
		Lofts:          2,
		Birds:          30,
		ActiveBirds:    28,
		TasksDue:       5,
		TasksCompleted: 4,
		ActivePairings: 3,
		EggsIncubating: 6,
		LowStockItems:  1,
	})

	require.Len(t, row, 10, "Reports!A:J has ten columns")
	assert.Equal(t, "2024-05-10", row[0])
	assert.Equal(t, "u-1", row[1])
	assert.Equal(t, 28, row[4])
	assert.Equal(t, 1, row[9])
}
