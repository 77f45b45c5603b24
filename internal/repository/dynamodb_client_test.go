package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"greeting-agent/internal/domain"
)

type fakeDynamo struct {
	getOut       *dynamodb.GetItemOutput
	getErr       error
	putErr       error
	lastGetInput *dynamodb.GetItemInput
	lastPutInput *dynamodb.PutItemInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGetInput = in
	return f.getOut, f.getErr
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPutInput = in
	return &dynamodb.PutItemOutput{}, f.putErr
}

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func mustNewClient(t *testing.T, db *fakeDynamo, opts ...Option) *Client {
	t.Helper()
	c, err := New(db, "test-table", opts...)
	require.NoError(t, err)
	c.now = func() time.Time { return fixedNow }
	return c
}

func sampleConversation() domain.ConversationState {
	return domain.ConversationState{
		SessionID: "abc",
		Transcript: []domain.Message{
			{ID: "m1", Content: "Hi there!", Sender: domain.SenderBot, SentAt: fixedNow},
			{ID: "m2", Content: "I miss you", Sender: domain.SenderUser, SentAt: fixedNow.Add(time.Second)},
		},
		PromptIndex: 1,
		Typing:      true,
		Pending: []domain.ScheduledStep{
			{Due: fixedNow.Add(2 * time.Second), Action: domain.StepDeliver, Text: "reply"},
		},
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
}

func TestNew_Validates(t *testing.T) {
	_, err := New(nil, "t")
	require.Error(t, err)
	_, err = New(&fakeDynamo{}, " ")
	require.Error(t, err)
}

func TestSaveConversation_NewSessionRequiresAbsentItem(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)

	saved, err := c.SaveConversation(context.Background(), sampleConversation())
	require.NoError(t, err)
	require.Equal(t, 1, saved.Version)

	in := db.lastPutInput
	require.Equal(t, "test-table", *in.TableName)
	require.Equal(t, "attribute_not_exists(PK) AND attribute_not_exists(SK)", *in.ConditionExpression)
	require.Equal(t, "CHAT#abc", in.Item["PK"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, skState, in.Item["SK"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "1", in.Item["version"].(*types.AttributeValueMemberN).Value)
}

func TestSaveConversation_ExistingSessionChecksVersion(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)
	st := sampleConversation()
	st.Version = 4

	saved, err := c.SaveConversation(context.Background(), st)
	require.NoError(t, err)
	require.Equal(t, 5, saved.Version)
	require.Equal(t, "version = :expected", *db.lastPutInput.ConditionExpression)
	require.Equal(t, "4", db.lastPutInput.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value)
}

func TestSaveConversation_TTL(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db, WithTTL(time.Hour))
	_, err := c.SaveConversation(context.Background(), sampleConversation())
	require.NoError(t, err)
	require.Equal(t, "1773482400", db.lastPutInput.Item["ttl"].(*types.AttributeValueMemberN).Value)
}

func TestSaveConversation_Conflict(t *testing.T) {
	db := &fakeDynamo{putErr: &types.ConditionalCheckFailedException{}}
	c := mustNewClient(t, db)
	_, err := c.SaveConversation(context.Background(), sampleConversation())
	require.ErrorIs(t, err, ErrConflict)
}

func TestSaveConversation_DynamoError(t *testing.T) {
	db := &fakeDynamo{putErr: errors.New("ProvisionedThroughputExceededException")}
	c := mustNewClient(t, db)
	_, err := c.SaveConversation(context.Background(), sampleConversation())
	require.Error(t, err)
	require.Contains(t, err.Error(), "SaveConversation")
}

func TestSaveConversation_RequiresSessionID(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{})
	_, err := c.SaveConversation(context.Background(), domain.ConversationState{})
	require.Error(t, err)
}

func TestGetConversation_RoundTrip(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)
	saved, err := c.SaveConversation(context.Background(), sampleConversation())
	require.NoError(t, err)

	db.getOut = &dynamodb.GetItemOutput{Item: db.lastPutInput.Item}
	got, err := c.GetConversation(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, saved.Version, got.Version)
	require.Equal(t, saved.PromptIndex, got.PromptIndex)
	require.True(t, got.Typing)
	require.Len(t, got.Transcript, 2)
	require.Equal(t, "I miss you", got.Transcript[1].Content)
	require.Equal(t, domain.SenderUser, got.Transcript[1].Sender)
	require.Len(t, got.Pending, 1)
	require.True(t, saved.Pending[0].Due.Equal(got.Pending[0].Due))
	require.Equal(t, domain.StepDeliver, got.Pending[0].Action)

	require.Equal(t, "CHAT#abc", db.lastGetInput.Key["PK"].(*types.AttributeValueMemberS).Value)
	require.True(t, *db.lastGetInput.ConsistentRead)
}

func TestGetConversation_NotFound(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{}})
	_, err := c.GetConversation(context.Background(), "abc")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetConversation_GetItemError(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{getErr: errors.New("boom")})
	_, err := c.GetConversation(context.Background(), "abc")
	require.Error(t, err)
	require.Contains(t, err.Error(), "GetConversation")
}

func TestGetConversation_MalformedItem(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
		"PK":      &types.AttributeValueMemberS{Value: "CHAT#abc"},
		"version": &types.AttributeValueMemberS{Value: "bad"},
	}}}
	c := mustNewClient(t, db)
	_, err := c.GetConversation(context.Background(), "abc")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unmarshal")
}

func TestDeck_RoundTrip(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)
	st := domain.DeckState{
		SessionID:    "d1",
		Cards:        []domain.Card{{ID: 1, Sender: "Riya", Read: true}, {ID: 2, Sender: "Kabir"}},
		CurrentIndex: 1,
		Direction:    domain.DirectionNone,
	}
	saved, err := c.SaveDeck(context.Background(), st)
	require.NoError(t, err)
	require.Equal(t, "DECK#d1", db.lastPutInput.Item["PK"].(*types.AttributeValueMemberS).Value)

	db.getOut = &dynamodb.GetItemOutput{Item: db.lastPutInput.Item}
	got, err := c.GetDeck(context.Background(), "d1")
	require.NoError(t, err)
	require.Equal(t, saved.Version, got.Version)
	require.Equal(t, 1, got.CurrentIndex)
	require.True(t, got.Cards[0].Read)
	require.False(t, got.Cards[1].Read)
}

func TestDeck_NotFoundAndConflict(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{}})
	_, err := c.GetDeck(context.Background(), "d1")
	require.ErrorIs(t, err, ErrNotFound)

	c = mustNewClient(t, &fakeDynamo{putErr: &types.ConditionalCheckFailedException{}})
	_, err = c.SaveDeck(context.Background(), domain.DeckState{SessionID: "d1", Version: 2})
	require.ErrorIs(t, err, ErrConflict)
}
