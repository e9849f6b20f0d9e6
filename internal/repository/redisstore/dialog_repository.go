package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"edu-chatbot-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const dialogStateTTL = 24 * time.Hour

// DialogStateRepository persists dialog state in Redis so chat turns survive
// restarts and can be served by any replica.
type DialogStateRepository struct {
	rdb *redis.Client
}

func NewDialogStateRepository(rdb *redis.Client) *DialogStateRepository {
	return &DialogStateRepository{
		rdb: rdb,
	}
}

func dialogStateKey(conversationID string) string {
	return fmt.Sprintf("dialog_state:%s", conversationID)
}

func (r *DialogStateRepository) Save(ctx context.Context, state *store.DialogState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal dialog state: %w", err)
	}
	return r.rdb.Set(ctx, dialogStateKey(state.ConversationID), payload, dialogStateTTL).Err()
}

func (r *DialogStateRepository) Get(ctx context.Context, conversationID string) (*store.DialogState, error) {
	payload, err := r.rdb.Get(ctx, dialogStateKey(conversationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var state store.DialogState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dialog state: %w", err)
	}
	return &state, nil
}

func (r *DialogStateRepository) Delete(ctx context.Context, conversationID string) error {
	return r.rdb.Del(ctx, dialogStateKey(conversationID)).Err()
}
