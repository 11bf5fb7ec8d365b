package pg

import (
	"testing"

	"github.com/concreteguy/homepage/internal/domain"
	internal_errors "github.com/concreteguy/homepage/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageCRUD(t *testing.T) {
	before, err := storage.Messages()
	require.NoError(t, err)

	msg, err := storage.CreateMessage(domain.MessageCreationData{Name: "Ann", Email: "a@example.com", Text: "hi"})
	require.NoError(t, err)

	after, err := storage.Messages()
	require.NoError(t, err)
	require.Len(t, after, len(before)+1, "exactly one row added")
	last := after[len(after)-1]
	assert.Equal(t, msg.Id, last.Id)
	assert.Equal(t, "Ann", last.Name)
	assert.Equal(t, "a@example.com", last.Email)
	assert.Equal(t, "hi", last.Text)

	edited, err := storage.UpdateMessage(domain.MessageUpdateData{Id: msg.Id, Name: "Bob", Email: "b@example.com", Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", edited.Name)

	got, err := storage.Message(msg.Id)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text, "edit must persist")

	require.NoError(t, storage.DeleteMessage(msg.Id))
	_, err = storage.Message(msg.Id)
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestMessage_MissingId(t *testing.T) {
	before, err := storage.Messages()
	require.NoError(t, err)

	_, err = storage.UpdateMessage(domain.MessageUpdateData{Id: 987654, Name: "n", Email: "e", Text: "t"})
	assert.True(t, internal_errors.IsNotFound(err))
	assert.True(t, internal_errors.IsNotFound(storage.DeleteMessage(987654)))

	after, err := storage.Messages()
	require.NoError(t, err)
	require.Len(t, after, len(before), "no row created")
	for i := range before {
		assert.Equal(t, before[i].Id, after[i].Id)
		assert.Equal(t, before[i].Text, after[i].Text, "no row altered")
	}
}
