package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/kemurphy3/ignite-fitness-sub004/internal/domain"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const templateCollectionName = "workout_templates"

// mongoTemplateCatalog implements repository.WorkoutCatalog.
type mongoTemplateCatalog struct {
	collection *mongo.Collection
}

// NewMongoTemplateCatalog creates a workout template catalog backed by MongoDB.
func NewMongoTemplateCatalog(db *mongo.Database) repository.WorkoutCatalog {
	return &mongoTemplateCatalog{
		collection: db.Collection(templateCollectionName),
	}
}

// GetByModality retrieves every template for a modality, ordered by name so
// downstream ranking sees a stable input order.
func (r *mongoTemplateCatalog) GetByModality(ctx context.Context, modality domain.Modality) ([]domain.WorkoutTemplate, error) {
	var templates []domain.WorkoutTemplate
	filter := bson.M{"modality": modality}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

// GetByID retrieves a single template.
func (r *mongoTemplateCatalog) GetByID(ctx context.Context, templateID string) (*domain.WorkoutTemplate, error) {
	var template domain.WorkoutTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": templateID}).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// Upsert inserts or replaces a template by its ID. Used by the catalog import
// at startup, not by the request path.
func (r *mongoTemplateCatalog) Upsert(ctx context.Context, template *domain.WorkoutTemplate) error {
	if err := template.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	template.UpdatedAt = now
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}

	filter := bson.M{"_id": template.TemplateID}
	opts := options.Replace().SetUpsert(true)
	result, err := r.collection.ReplaceOne(ctx, filter, template, opts)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return repository.ErrUpsertFailed
	}
	return nil
}

// CountByModality reports how many templates exist for a modality.
func (r *mongoTemplateCatalog) CountByModality(ctx context.Context, modality domain.Modality) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"modality": modality})
}

// EnsureTemplateIndexes creates the indexes the catalog queries rely on.
func EnsureTemplateIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "modality", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "modality", Value: 1}, {Key: "adaptation", Value: 1}},
			Options: options.Index().SetName("modality_adaptation"),
		},
	}

	// Index creation is best-effort at startup; queries still work unindexed.
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
