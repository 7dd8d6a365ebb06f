package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	client, err := NewClient(context.Background(), "", "gemini-2.5-flash", nil)
	assert.Error(t, err)
	assert.Nil(t, client)
}
