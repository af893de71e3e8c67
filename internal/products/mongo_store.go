package products

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourusername/storefront-api/internal/apperr"
	"github.com/yourusername/storefront-api/internal/database"
)

const collectionName = "products"

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	User        primitive.ObjectID `bson:"user,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d *productDocument) toProduct() Product {
	p := Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		CreatedAt:   d.CreatedAt,
	}
	if !d.User.IsZero() {
		p.User = d.User.Hex()
	}
	return p
}

// MongoStore は MongoDB の products コレクションを使う Store 実装です。
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore は MongoStore を作成します。
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(collectionName)}
}

func (s *MongoStore) Create(ctx context.Context, userID string, in Input) (*Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.BadRequest("Invalid user id").Wrap(err)
	}

	doc := productDocument{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		User:        owner,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, database.TranslateError(err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, errors.New("unexpected inserted id type")
	}
	doc.ID = oid
	p := doc.toProduct()
	return &p, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*Product, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return nil, err
	}
	var doc productDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, database.TranslateError(err)
	}
	p := doc.toProduct()
	return &p, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Product, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []Product{}
	for cur.Next(ctx) {
		var doc productDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		list = append(list, doc.toProduct())
	}
	return list, cur.Err()
}

func (s *MongoStore) Update(ctx context.Context, id string, patch Patch) (*Product, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	oid, err := database.ParseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	var doc productDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, database.TranslateError(err)
	}
	p := doc.toProduct()
	return &p, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := database.ParseID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Resource not found")
	}
	return nil
}
