package mapper

import (
	"testing"

	"edu-chatbot-be/internal/entity"
	"edu-chatbot-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestMessageToEntity_Fragments(t *testing.T) {
	m := NewConversationMapper()

	t.Run("valid payload round-trips", func(t *testing.T) {
		msg := &model.Message{
			Id:             uuid.New(),
			ConversationId: uuid.New(),
			Role:           string(entity.MessageRoleAssistant),
			Content:        "A derivative measures the rate of change.",
			Fragments:      datatypes.JSON(`[{"text":"the derivative is defined as","page":12}]`),
		}

		got := m.MessageToEntity(msg)
		require.NotNil(t, got)
		require.Len(t, got.Fragments, 1)
		assert.Equal(t, "the derivative is defined as", got.Fragments[0].Text)
		assert.Equal(t, 12, got.Fragments[0].Page)
	})

	t.Run("corrupt payload degrades to no citations", func(t *testing.T) {
		msg := &model.Message{
			Id:             uuid.New(),
			ConversationId: uuid.New(),
			Role:           string(entity.MessageRoleAssistant),
			Content:        "A derivative measures the rate of change.",
			Fragments:      datatypes.JSON(`{"not":"an array"`),
		}

		got := m.MessageToEntity(msg)
		require.NotNil(t, got)
		assert.Nil(t, got.Fragments)
		assert.Equal(t, "A derivative measures the rate of change.", got.Content)
	})
}
