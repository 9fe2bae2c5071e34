package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"blogscope/models"
)

// MongoBlogRepository stores blogs in the "blogs" collection, one
// document per tracked blog, keyed by normalized URL.
type MongoBlogRepository struct {
	col    *mongo.Collection
	client *mongo.Client
}

func NewMongoBlogRepository(client *mongo.Client, db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{col: db.Collection("blogs"), client: client}
}

func (r *MongoBlogRepository) Load(ctx context.Context) ([]models.BlogMetadata, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var blogs []models.BlogMetadata
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// Save replaces the whole collection with the given list.
func (r *MongoBlogRepository) Save(ctx context.Context, blogs []models.BlogMetadata) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(blogs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(blogs))
	for i := range blogs {
		docs = append(docs, blogs[i])
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

func (r *MongoBlogRepository) List(ctx context.Context, opts ListBlogsOptions) ([]models.BlogMetadata, error) {
	filter := bson.M{}
	if opts.FavoriteOnly {
		filter["is_favorite"] = true
	}

	sort := bson.D{{Key: "added_at", Value: -1}}
	switch opts.SortBy {
	case "quality":
		sort = bson.D{{Key: "quality_score", Value: -1}}
	case "consistency":
		sort = bson.D{{Key: "stats.consistency_score", Value: -1}}
	}

	findOpts := options.Find().SetSort(sort)
	if opts.PageSize > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		findOpts = findOpts.SetSkip(int64((page - 1) * opts.PageSize)).SetLimit(int64(opts.PageSize))
	}

	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var blogs []models.BlogMetadata
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *MongoBlogRepository) FindByID(ctx context.Context, id string) (*models.BlogMetadata, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoBlogRepository) FindByURL(ctx context.Context, url string) (*models.BlogMetadata, error) {
	return r.findOne(ctx, bson.M{"url": url})
}

func (r *MongoBlogRepository) findOne(ctx context.Context, filter bson.M) (*models.BlogMetadata, error) {
	var b models.BlogMetadata
	if err := r.col.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Upsert writes a blog document identified by its normalized url.
func (r *MongoBlogRepository) Upsert(ctx context.Context, b *models.BlogMetadata) error {
	filter := bson.M{"url": b.URL}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, filter, b, opts)
	return err
}

func (r *MongoBlogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBlogRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}
