package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spaceapp/space-api/internal/core/ports"
)

const collectionAudit = "audit_log"

// AuditRepository implements ports.AuditRecorder on a MongoDB collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

// Record inserts one audit document.
func (r *AuditRepository) Record(ctx context.Context, entry ports.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, auditDocument(entry))
	return err
}

// EnsureIndexes creates the lookup index on entity and id.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "entity", Value: 1}, {Key: "entity_id", Value: 1}},
	})
	return err
}

func auditDocument(entry ports.AuditEntry) bson.M {
	doc := bson.M{
		"entity":    entry.Entity,
		"entity_id": entry.EntityID,
		"action":    entry.Action,
		"actor":     entry.Actor,
		"at":        entry.At.UTC(),
	}
	if len(entry.Details) > 0 {
		doc["details"] = entry.Details
	}
	return doc
}
