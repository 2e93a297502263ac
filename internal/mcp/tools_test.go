package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"world-entity-demo/backend/internal/models"
)

type mockRelay struct {
	chatReply models.ChatMessage
	entity    models.WorldEntity
	err       error

	lastMessages  []models.ChatMessage
	lastWorld     string
	lastName      string
	lastWithImage bool
}

func (m *mockRelay) Chat(_ context.Context, messages []models.ChatMessage) (models.ChatMessage, error) {
	m.lastMessages = messages
	return m.chatReply, m.err
}

func (m *mockRelay) GenerateEntity(_ context.Context, world, name string, withImage bool) (models.WorldEntity, error) {
	m.lastWorld = world
	m.lastName = name
	m.lastWithImage = withImage
	return m.entity, m.err
}

func TestChatTool(t *testing.T) {
	relay := &mockRelay{chatReply: models.ChatMessage{Role: models.RoleAssistant, Content: "Hail"}}
	server := NewServer(relay, "test")

	messages := []models.ChatMessage{{Role: models.RoleUser, Content: "hello"}}
	_, output, err := server.handleChat(context.Background(), nil, ChatInput{Messages: messages})

	require.NoError(t, err)
	assert.Equal(t, "Hail", output.Message.Content)
	assert.Equal(t, messages, relay.lastMessages)
}

func TestChatToolPropagatesErrors(t *testing.T) {
	relay := &mockRelay{err: errors.New("upstream returned status 401")}
	server := NewServer(relay, "test")

	_, _, err := server.handleChat(context.Background(), nil, ChatInput{})
	assert.Error(t, err)
	assert.NotNil(t, relay.lastMessages)
}

func TestGenerateEntityTool(t *testing.T) {
	relay := &mockRelay{entity: models.WorldEntity{Name: "Aslan", Type: "lion", Abilities: []string{"roar"}}}
	server := NewServer(relay, "test")

	_, output, err := server.handleGenerateEntity(context.Background(), nil, GenerateEntityInput{
		World:     "Narnia",
		Name:      "Aslan",
		WithImage: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Aslan", output.WorldEntity.Name)
	assert.Equal(t, "Narnia", relay.lastWorld)
	assert.Equal(t, "Aslan", relay.lastName)
	assert.True(t, relay.lastWithImage)
}

func TestGenerateEntityToolRequiresFields(t *testing.T) {
	relay := &mockRelay{}
	server := NewServer(relay, "test")

	_, _, err := server.handleGenerateEntity(context.Background(), nil, GenerateEntityInput{World: "Narnia"})
	assert.Error(t, err)
	assert.Empty(t, relay.lastName)
}
