package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/moodcircle-api/internal/domain"
)

// OTPRepo manages one-time login codes. PK: email, so the table can hold at
// most one record per address; conditional writes turn that into the
// concurrency guard for issuance and single-use consumption.
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOTPRepo(client *dynamodb.Client, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

// FindActive returns the unexpired code record for an email, or ErrNotFound.
func (r *OTPRepo) FindActive(ctx context.Context, email string) (*domain.OTPCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldEmail, email),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	var c domain.OTPCode
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	if c.ExpiresAt <= time.Now().Unix() {
		return nil, fmt.Errorf("otp expired: %w", domain.ErrNotFound)
	}
	return &c, nil
}

// PutIfNoneActive writes the record only if no unexpired record exists for
// the email. The conditional write is atomic on the server, which closes the
// window between "check for existing" and "insert new": of two concurrent
// issuance attempts exactly one succeeds. Returns domain.ErrRateLimited when
// the condition fails.
func (r *OTPRepo) PutIfNoneActive(ctx context.Context, c *domain.OTPCode) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#e) OR #x <= :now"),
		ExpressionAttributeNames: map[string]string{
			"#e": fieldEmail,
			"#x": fieldExpiresAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Unix(), 10)},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("active code already issued: %w", domain.ErrRateLimited)
		}
		return err
	}
	return nil
}

// DeleteByEmail removes any record for the email, expired or not.
// Used for stale cleanup and for rolling back a code whose email never left
// the building.
func (r *OTPRepo) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldEmail, email),
	})
	return err
}

// Consume atomically deletes the record iff the code matches and is
// unexpired, reporting whether a row was actually removed. Two concurrent
// calls holding the same code race on the conditional delete; DynamoDB
// accepts exactly one, so only one caller sees removed=true.
func (r *OTPRepo) Consume(ctx context.Context, email, code string) (removed bool, err error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldEmail, email),
		ConditionExpression: aws.String("#c = :code AND #x > :now"),
		ExpressionAttributeNames: map[string]string{
			"#c": fieldCode,
			"#x": fieldExpiresAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: code},
			":now":  &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Unix(), 10)},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		return false, err
	}
	return out.Attributes != nil, nil
}
