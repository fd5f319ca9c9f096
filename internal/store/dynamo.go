package store

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
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// DynamoDB key constants for the single-table design.
const (
	pkPrefix     = "USER#"
	skSuggestion = "SUGGESTION#"
)

// Shared zstd coders. EncodeAll/DecodeAll on a nil-source coder are safe for
// concurrent use.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// DynamoStore implements SuggestionStore using AWS DynamoDB.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// Compile-time interface check.
var _ SuggestionStore = (*DynamoStore)(nil)

// NewDynamoStore creates a DynamoStore for the given table. The client
// should be initialized from the shared AWS config.
func NewDynamoStore(client *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

func userPK(userID string) string {
	return pkPrefix + userID
}

func suggestionSK(id string) string {
	return skSuggestion + id
}

func (s *DynamoStore) Put(ctx context.Context, sg *Suggestion) error {
	fill(sg)

	item, err := attributevalue.MarshalMap(sg)
	if err != nil {
		return fmt.Errorf("marshal suggestion %s: %w", sg.ID, err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: userPK(sg.UserID)}
	item["SK"] = &types.AttributeValueMemberS{Value: suggestionSK(sg.ID)}
	if sg.RawConversation != "" {
		item["rawConversationZ"] = &types.AttributeValueMemberB{
			Value: zstdEncoder.EncodeAll([]byte(sg.RawConversation), nil),
		}
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put suggestion %s/%s: %w", sg.UserID, sg.ID, err)
	}

	log.Debug().Str("userId", sg.UserID).Str("suggestionId", sg.ID).Msg("Suggestion persisted to DynamoDB")
	return nil
}

func (s *DynamoStore) Get(ctx context.Context, userID, id string) (*Suggestion, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: suggestionSK(id)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get suggestion %s/%s: %w", userID, id, err)
	}
	if result.Item == nil {
		return nil, nil
	}
	return s.unmarshalItem(result.Item, userID)
}

func (s *DynamoStore) ListByUser(ctx context.Context, userID string) ([]*Suggestion, error) {
	input := &dynamodb.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :skPrefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":       &types.AttributeValueMemberS{Value: userPK(userID)},
			":skPrefix": &types.AttributeValueMemberS{Value: skSuggestion},
		},
	}

	var suggestions []*Suggestion

	// Paginate — DynamoDB returns up to 1MB per Query call.
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query suggestions for %s: %w", userID, err)
		}
		for _, item := range result.Items {
			sg, err := s.unmarshalItem(item, userID)
			if err != nil {
				log.Warn().Err(err).Str("userId", userID).Msg("Failed to unmarshal suggestion, skipping")
				continue
			}
			suggestions = append(suggestions, sg)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return suggestions, nil
}

func (s *DynamoStore) Update(ctx context.Context, userID, id, suggestion string, tags []string) (*Suggestion, error) {
	return s.update(ctx, userID, id,
		"SET suggestion = :sg, tags = :t, updatedAt = :u",
		map[string]types.AttributeValue{
			":sg": &types.AttributeValueMemberS{Value: suggestion},
			":t":  tagList(tags),
			":u":  nowAttr(),
		})
}

func (s *DynamoStore) UpdateTags(ctx context.Context, userID, id string, tags []string) (*Suggestion, error) {
	return s.update(ctx, userID, id,
		"SET tags = :t, updatedAt = :u",
		map[string]types.AttributeValue{
			":t": tagList(tags),
			":u": nowAttr(),
		})
}

// update runs a conditional UpdateItem and returns the updated record.
// A missing record yields nil, nil like Get.
func (s *DynamoStore) update(ctx context.Context, userID, id, expr string, values map[string]types.AttributeValue) (*Suggestion, error) {
	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: suggestionSK(id)},
		},
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, nil
		}
		return nil, fmt.Errorf("update suggestion %s/%s: %w", userID, id, err)
	}
	return s.unmarshalItem(result.Attributes, userID)
}

func (s *DynamoStore) Delete(ctx context.Context, userID, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: suggestionSK(id)},
		},
	})
	if err != nil {
		return fmt.Errorf("delete suggestion %s/%s: %w", userID, id, err)
	}

	log.Debug().Str("userId", userID).Str("suggestionId", id).Msg("Suggestion deleted")
	return nil
}

// unmarshalItem converts a raw DynamoDB item into a Suggestion, restoring
// the ID from the sort key and decompressing the raw conversation blob.
func (s *DynamoStore) unmarshalItem(item map[string]types.AttributeValue, userID string) (*Suggestion, error) {
	var sg Suggestion
	if err := attributevalue.UnmarshalMap(item, &sg); err != nil {
		return nil, fmt.Errorf("unmarshal suggestion: %w", err)
	}
	sg.UserID = userID
	if skAttr, ok := item["SK"].(*types.AttributeValueMemberS); ok {
		sg.ID = strings.TrimPrefix(skAttr.Value, skSuggestion)
	}
	if blob, ok := item["rawConversationZ"].(*types.AttributeValueMemberB); ok {
		raw, err := zstdDecoder.DecodeAll(blob.Value, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress conversation for %s: %w", sg.ID, err)
		}
		sg.RawConversation = string(raw)
	}
	return &sg, nil
}

func nowAttr() types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Unix(), 10)}
}

func tagList(tags []string) types.AttributeValue {
	members := make([]types.AttributeValue, 0, len(tags))
	for _, t := range tags {
		members = append(members, &types.AttributeValueMemberS{Value: t})
	}
	return &types.AttributeValueMemberL{Value: members}
}
