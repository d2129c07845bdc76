package session

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName 은 mongo 드라이버가 쓰는 컬렉션이다.
const CollectionName = "chat_sessions"

type mongoDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	ExpiresAt time.Time `bson:"expires_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoBackend 는 세션 레코드를 문서 하나로 보관한다.
// TTL 인덱스 정리는 최대 1분 늦으므로 조회 시 expires_at 을 다시 확인한다.
type MongoBackend struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoBackend(col *mongo.Collection) *MongoBackend {
	return &MongoBackend{col: col, now: time.Now}
}

// EnsureIndexes 는 expires_at TTL 인덱스를 만든다.
func EnsureIndexes(ctx context.Context, col *mongo.Collection) error {
	mi := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
	}
	_, err := col.Indexes().CreateOne(ctx, mi)
	return err
}

func (b *MongoBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var doc mongoDocument
	filter := bson.M{"_id": key, "expires_at": bson.M{"$gt": b.now()}}
	err := b.col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Value), nil
}

func (b *MongoBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := b.now()
	update := bson.M{"$set": bson.M{
		"value":      string(value),
		"expires_at": now.Add(ttl),
		"updated_at": now,
	}}
	_, err := b.col.UpdateByID(ctx, key, update, options.Update().SetUpsert(true))
	return err
}

func (b *MongoBackend) Delete(ctx context.Context, key string) error {
	_, err := b.col.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (b *MongoBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	filter := bson.M{
		"_id":        bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)},
		"expires_at": bson.M{"$gt": b.now()},
	}
	cur, err := b.col.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var keys []string
	for cur.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		keys = append(keys, doc.Key)
	}
	return keys, cur.Err()
}

// Close 는 컬렉션의 클라이언트를 닫지 않는다. 클라이언트 수명은 db 패키지가 관리한다.
func (b *MongoBackend) Close() error {
	return nil
}
