package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"greeting-agent/internal/domain"
)

const (
	pkPrefixChat = "CHAT#"
	pkPrefixDeck = "DECK#"
	skState      = "STATE#"
	defaultTTL   = 7 * 24 * time.Hour
)

var (
	ErrNotFound = domain.ErrSessionNotFound
	ErrConflict = domain.ErrVersionConflict
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// conversationItem is the stored shape of a conversation session.
type conversationItem struct {
	PK      string                   `dynamodbav:"PK"`
	SK      string                   `dynamodbav:"SK"`
	State   domain.ConversationState `dynamodbav:"state"`
	Version int                      `dynamodbav:"version"`
	TTL     int64                    `dynamodbav:"ttl"`
}

// deckItem is the stored shape of a deck session.
type deckItem struct {
	PK      string           `dynamodbav:"PK"`
	SK      string           `dynamodbav:"SK"`
	State   domain.DeckState `dynamodbav:"state"`
	Version int              `dynamodbav:"version"`
	TTL     int64            `dynamodbav:"ttl"`
}

// Client wraps a DynamoDB table holding conversation and deck sessions.
type Client struct {
	api       dynamodbAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithTTL sets how long an idle session is kept.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string, opts ...Option) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	c := &Client{api: api, tableName: tableName, ttl: defaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func chatPK(sessionID string) string { return pkPrefixChat + sessionID }

func deckPK(sessionID string) string { return pkPrefixDeck + sessionID }

// ttlValue returns the expiry timestamp for a session written now.
func (c *Client) ttlValue() int64 {
	return c.now().Add(c.ttl).Unix()
}

// GetConversation loads a conversation session.
func (c *Client) GetConversation(ctx context.Context, sessionID string) (domain.ConversationState, error) {
	var item conversationItem
	if err := c.get(ctx, "GetConversation", chatPK(sessionID), &item); err != nil {
		return domain.ConversationState{}, err
	}
	state := item.State
	state.Version = item.Version
	return state, nil
}

// SaveConversation writes a conversation session if nobody else has written
// it since state.Version was read. The stored copy is returned with its new
// version.
func (c *Client) SaveConversation(ctx context.Context, state domain.ConversationState) (domain.ConversationState, error) {
	if strings.TrimSpace(state.SessionID) == "" {
		return domain.ConversationState{}, errors.New("repository: SaveConversation: session id is required")
	}
	expected := state.Version
	state.Version = expected + 1
	item := conversationItem{
		PK:      chatPK(state.SessionID),
		SK:      skState,
		State:   state,
		Version: state.Version,
		TTL:     c.ttlValue(),
	}
	if err := c.put(ctx, "SaveConversation", item, expected); err != nil {
		return domain.ConversationState{}, err
	}
	return state, nil
}

// GetDeck loads a deck session.
func (c *Client) GetDeck(ctx context.Context, sessionID string) (domain.DeckState, error) {
	var item deckItem
	if err := c.get(ctx, "GetDeck", deckPK(sessionID), &item); err != nil {
		return domain.DeckState{}, err
	}
	state := item.State
	state.Version = item.Version
	return state, nil
}

// SaveDeck writes a deck session with the same versioning rules as
// SaveConversation.
func (c *Client) SaveDeck(ctx context.Context, state domain.DeckState) (domain.DeckState, error) {
	if strings.TrimSpace(state.SessionID) == "" {
		return domain.DeckState{}, errors.New("repository: SaveDeck: session id is required")
	}
	expected := state.Version
	state.Version = expected + 1
	item := deckItem{
		PK:      deckPK(state.SessionID),
		SK:      skState,
		State:   state,
		Version: state.Version,
		TTL:     c.ttlValue(),
	}
	if err := c.put(ctx, "SaveDeck", item, expected); err != nil {
		return domain.DeckState{}, err
	}
	return state, nil
}

func (c *Client) get(ctx context.Context, op, pk string, out any) error {
	res, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: skState},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("repository: %s get item: %w", op, err)
	}
	if res == nil || len(res.Item) == 0 {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return fmt.Errorf("repository: %s unmarshal: %w", op, err)
	}
	return nil
}

// put writes item guarded by the version it is replacing. A zero expected
// version means the item must not exist yet.
func (c *Client) put(ctx context.Context, op string, item any, expected int) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("repository: %s marshal: %w", op, err)
	}
	in := &dynamodb.PutItemInput{
		TableName:           aws.String(c.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	}
	if expected > 0 {
		in.ConditionExpression = aws.String("version = :expected")
		in.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.Itoa(expected)},
		}
	}
	if _, err := c.api.PutItem(ctx, in); err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConflict
		}
		return fmt.Errorf("repository: %s: %w", op, err)
	}
	return nil
}
