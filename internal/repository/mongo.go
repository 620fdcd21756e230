package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "kelurahan/complaints-api/internal/errors"
	"kelurahan/complaints-api/internal/models"
	"kelurahan/complaints-api/internal/uuid"
)

// Collection names in the complaint database.
const (
	ComplaintCollection  = "complaints"
	LogCollection        = "complaint_logs"
	AttachmentCollection = "attachments"
)

// mongoComplaintRepository implements ComplaintRepository on MongoDB.
type mongoComplaintRepository struct {
	coll *mongo.Collection
}

// NewMongoComplaintRepository creates a ComplaintRepository backed by db.
func NewMongoComplaintRepository(db *mongo.Database) ComplaintRepository {
	return &mongoComplaintRepository{coll: db.Collection(ComplaintCollection)}
}

func (r *mongoComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	now := time.Now().UTC()
	if complaint.ID == "" {
		complaint.ID = uuid.New()
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = now
		complaint.UpdatedAt = now
	}
	_, err := r.coll.InsertOne(ctx, complaint)
	return err
}

func (r *mongoComplaintRepository) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&complaint)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.ErrComplaintNotFound
	}
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (f ComplaintFilter) bson() bson.M {
	q := bson.M{}
	if f.UserID != nil {
		q["user_id"] = *f.UserID
	}
	if f.Status != nil {
		q["status"] = *f.Status
	}
	return q
}

func (r *mongoComplaintRepository) Find(ctx context.Context, filter ComplaintFilter, offset, limit int) ([]models.Complaint, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter.bson(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	complaints := []models.Complaint{}
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *mongoComplaintRepository) Count(ctx context.Context, filter ComplaintFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, filter.bson())
}

func (r *mongoComplaintRepository) UpdateStatus(ctx context.Context, id string, status models.Status, updatedAt time.Time) error {
	result, err := r.coll.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": status, "updated_at": updatedAt},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrComplaintNotFound
	}
	return nil
}

func (r *mongoComplaintRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrComplaintNotFound
	}
	return nil
}

func (r *mongoComplaintRepository) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	// Single aggregation pass so the stats reflect one snapshot read.
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.Status `bson:"_id"`
		Count  int64         `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int64, len(models.Statuses))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// mongoLogRepository implements LogRepository on MongoDB.
type mongoLogRepository struct {
	coll *mongo.Collection
}

// NewMongoLogRepository creates a LogRepository backed by db.
func NewMongoLogRepository(db *mongo.Database) LogRepository {
	return &mongoLogRepository{coll: db.Collection(LogCollection)}
}

func (r *mongoLogRepository) Append(ctx context.Context, entry *models.ComplaintLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, entry)
	return err
}

func (r *mongoLogRepository) FindByComplaint(ctx context.Context, complaintID string) ([]models.ComplaintLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"complaint_id": complaintID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []models.ComplaintLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *mongoLogRepository) DeleteByComplaint(ctx context.Context, complaintID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"complaint_id": complaintID})
	return err
}

// mongoAttachmentRepository implements AttachmentRepository on MongoDB.
type mongoAttachmentRepository struct {
	coll *mongo.Collection
}

// NewMongoAttachmentRepository creates an AttachmentRepository backed by db.
func NewMongoAttachmentRepository(db *mongo.Database) AttachmentRepository {
	return &mongoAttachmentRepository{coll: db.Collection(AttachmentCollection)}
}

func (r *mongoAttachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	if attachment.ID == "" {
		attachment.ID = uuid.New()
	}
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, attachment)
	return err
}

func (r *mongoAttachmentRepository) FindByComplaint(ctx context.Context, complaintID string) ([]models.Attachment, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"complaint_id": complaintID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	attachments := []models.Attachment{}
	if err := cursor.All(ctx, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *mongoAttachmentRepository) DeleteByComplaint(ctx context.Context, complaintID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"complaint_id": complaintID})
	return err
}

// EnsureIndexes creates the indexes the repositories query on. Called once
// at startup after the Mongo connection is established.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(ComplaintCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(LogCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "complaint_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(AttachmentCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "complaint_id", Value: 1}},
	})
	return err
}
