package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

func TestReportFilter(t *testing.T) {
	got := reportFilter(models.DailyReport{UserID: "u-1", Date: "2024-05-10", Birds: 12})
	assert.Equal(t, bson.D{{Key: "user_id", Value: "u-1"}, {Key: "date", Value: "2024-05-10"}}, got)
}

func TestDailyReportDocumentKeys(t *testing.T) {
	raw, err := bson.Marshal(models.DailyReport{UserID: "u-1", Date: "2024-05-10", LowStockItems: 2})
	assert.NoError(t, err)

	var doc bson.M
	assert.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "u-1", doc["user_id"])
	assert.EqualValues(t, 2, doc["low_stock_items"])
}
