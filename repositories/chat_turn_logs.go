package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"peleman-chatbot/models"
)

type ChatTurnLogRepository struct {
	col *mongo.Collection
}

func NewChatTurnLogRepository(db *mongo.Database) *ChatTurnLogRepository {
	return &ChatTurnLogRepository{col: db.Collection("chat_turn_logs")}
}

// Insert 는 턴 기록을 저장한다. 같은 event_id 가 이미 있으면 재전송으로 보고 무시한다.
func (r *ChatTurnLogRepository) Insert(ctx context.Context, log models.ChatTurnLog) error {
	if log.RequestedAt.IsZero() {
		log.RequestedAt = time.Now()
	}
	_, err := r.col.InsertOne(ctx, log)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// Recent 는 세션의 최근 기록을 최신순으로 최대 limit 개 반환한다. sessionID 가 비어 있으면 전체에서 찾는다.
func (r *ChatTurnLogRepository) Recent(ctx context.Context, sessionID string, limit int64) ([]models.ChatTurnLog, error) {
	filter := bson.M{}
	if sessionID != "" {
		filter["session_id"] = sessionID
	}
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ChatTurnLog
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByEventID 는 event_id 로 기록을 찾는다. 없으면 (nil, nil).
func (r *ChatTurnLogRepository) FindByEventID(ctx context.Context, eventID string) (*models.ChatTurnLog, error) {
	var out models.ChatTurnLog
	err := r.col.FindOne(ctx, bson.M{"event_id": eventID}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
