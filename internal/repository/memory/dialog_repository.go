package memory

import (
	"context"
	"time"

	"edu-chatbot-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// DialogStateRepository keeps dialog state in-process. It is the fallback
// when no Redis instance is configured, so state does not survive restarts
// and is not shared across replicas.
type DialogStateRepository struct {
	cache *cache.Cache
}

func NewDialogStateRepository() *DialogStateRepository {
	// States live for 24 hours, expired items are purged every 10 minutes.
	c := cache.New(24*time.Hour, 10*time.Minute)
	return &DialogStateRepository{
		cache: c,
	}
}

func (r *DialogStateRepository) Save(_ context.Context, state *store.DialogState) error {
	r.cache.Set(state.ConversationID, state, cache.DefaultExpiration)
	return nil
}

func (r *DialogStateRepository) Get(_ context.Context, conversationID string) (*store.DialogState, error) {
	if x, found := r.cache.Get(conversationID); found {
		return x.(*store.DialogState), nil
	}
	return nil, nil
}

func (r *DialogStateRepository) Delete(_ context.Context, conversationID string) error {
	r.cache.Delete(conversationID)
	return nil
}
