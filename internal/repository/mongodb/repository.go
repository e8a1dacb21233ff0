package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/loftkeeper/internal/config"
	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

const reportsCollection = "daily_reports"

// ReportArchive stores one daily report per user and day in MongoDB.
type ReportArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewReportArchive connects to MongoDB and makes sure the report index exists.
func NewReportArchive(ctx context.Context, cfg config.MongoDBConfig) (*ReportArchive, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	archive := &ReportArchive{
		client: client,
		coll:   client.Database(cfg.DBName).Collection(reportsCollection),
	}
	if err := archive.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return archive, nil
}

func (r *ReportArchive) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_date_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create report index: %w", err)
	}
	return nil
}

// reportFilter identifies the document of one user and day.
func reportFilter(report models.DailyReport) bson.D {
	return bson.D{{Key: "user_id", Value: report.UserID}, {Key: "date", Value: report.Date}}
}

// SaveDailyReport stores report, replacing an earlier snapshot of the same day.
func (r *ReportArchive) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	_, err := r.coll.ReplaceOne(ctx, reportFilter(report), report, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save daily report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *ReportArchive) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
