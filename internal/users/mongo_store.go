package users

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

const collectionName = "users"

// 公開用の読み取りではパスワードを取得しない
var publicProjection = bson.M{"password": 0}

type userDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	Password    string             `bson:"password,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	LastLoginAt *time.Time         `bson:"lastLoginAt,omitempty"`
}

func (d *userDocument) toUser() User {
	return User{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Email:       d.Email,
		CreatedAt:   d.CreatedAt,
		LastLoginAt: d.LastLoginAt,
	}
}

// MongoStore は MongoDB の users コレクションを使う Store 実装です。
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore は MongoStore を作成します。
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(collectionName)}
}

// EnsureIndexes は email の一意インデックスを作成します。
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

func (s *MongoStore) Create(ctx context.Context, in NewUser) (*User, error) {
	if err := validateNew(in); err != nil {
		return nil, err
	}
	// 保存前にハッシュ化する
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	doc := userDocument{
		Name:      strings.TrimSpace(in.Name),
		Email:     NormalizeEmail(in.Email),
		Password:  hash,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
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

	u := doc.toUser()
	return &u, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	opts := options.FindOne().SetProjection(publicProjection)
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		return nil, database.TranslateError(err)
	}
	u := doc.toUser()
	return &u, nil
}

func (s *MongoStore) FindCredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&doc); err != nil {
		return nil, database.TranslateError(err)
	}
	return &Credentials{User: doc.toUser(), PasswordHash: doc.Password}, nil
}

func (s *MongoStore) List(ctx context.Context) ([]User, error) {
	opts := options.Find().
		SetProjection(publicProjection).
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []User{}
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		list = append(list, doc.toUser())
	}
	return list, cur.Err()
}

func (s *MongoStore) Update(ctx context.Context, id string, in UpdateUser) (*User, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}
	oid, err := database.ParseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if in.Name != nil {
		set["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		set["email"] = NormalizeEmail(*in.Email)
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(publicProjection)
	var doc userDocument
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, database.TranslateError(err)
	}
	u := doc.toUser()
	return &u, nil
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

func (s *MongoStore) RecordLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := database.ParseID(id)
	if err != nil {
		return err
	}
	res, err := s.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"lastLoginAt": at.UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Resource not found")
	}
	return nil
}
