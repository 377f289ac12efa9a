package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/moodcircle-api/internal/domain"
)

// RefreshTokenRepo provides typed DynamoDB operations for the refresh_tokens
// table. PK: token. Records are never deleted; revocation flips the revoked
// flag and expiry makes the rest inert, so the table doubles as an audit log.
type RefreshTokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRefreshTokenRepo(client *dynamodb.Client, tableName string) *RefreshTokenRepo {
	return &RefreshTokenRepo{client: client, tableName: tableName}
}

func (r *RefreshTokenRepo) Put(ctx context.Context, t *domain.RefreshToken) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal refresh token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *RefreshTokenRepo) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldToken, token),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("refresh token not found: %w", domain.ErrNotFound)
	}
	var t domain.RefreshToken
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// SetRevoked marks a single record revoked. Idempotent: revoking an unknown
// or already-revoked token is a no-op, never an error, so logout cannot be
// used to probe which tokens the store knows about.
func (r *RefreshTokenRepo) SetRevoked(ctx context.Context, token string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldRevoked: true})
	if err != nil {
		return err
	}
	ue.Names["#t"] = fieldToken
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldToken, token),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		// Only touch existing items; UpdateItem would otherwise upsert a
		// skeleton record for a token that was never issued.
		ConditionExpression: aws.String("attribute_exists(#t)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil
		}
		return err
	}
	return nil
}

// SetRevokedForUser marks every non-revoked record owned by userID revoked.
// Tokens issued after this call are unaffected.
func (r *RefreshTokenRepo) SetRevokedForUser(ctx context.Context, userID string) error {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("#u = :uid"),
		FilterExpression:       aws.String("#r = :f"),
		ExpressionAttributeNames: map[string]string{
			"#u": fieldUserID,
			"#r": fieldRevoked,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if err != nil {
		return err
	}
	var firstErr error
	for _, item := range out.Items {
		tokAttr, ok := item[fieldToken].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		if err := r.SetRevoked(ctx, tokAttr.Value); err != nil {
			slog.Warn("failed to revoke refresh token during logout-all", "user_id", userID, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
