package pdf

import (
	"testing"

	"edu-chatbot-be/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestHasText(t *testing.T) {
	assert.False(t, HasText(nil))
	assert.False(t, HasText([]utils.PageText{{Page: 1, Text: ""}, {Page: 2, Text: ""}}))
	assert.True(t, HasText([]utils.PageText{{Page: 1, Text: ""}, {Page: 2, Text: "limits"}}))
}
