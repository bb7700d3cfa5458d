package storage

import (
	"context"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type JudgeStorage interface {
	Get(ctx context.Context, id int) (*Judge, error)
	GetAll(ctx context.Context) ([]*Judge, error)
	Put(ctx context.Context, judge *Judge) error
	Delete(ctx context.Context, id int) error
	MarkTutorialShown(ctx context.Context, id int) error
}

// DynamoJudgeStorage keys judges by the user id carried in their token.
type DynamoJudgeStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoJudgeStorage) Get(ctx context.Context, id int) (*Judge, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       intKey(id),
	})
	if err != nil {
		logging.Log.Errorf("JUDGE: GetItem for ID %d failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var judge Judge
	if err := attributevalue.UnmarshalMap(out.Item, &judge); err != nil {
		logging.Log.Errorf("JUDGE: failed to unmarshal judge: %v", err)
		return nil, err
	}
	return &judge, nil
}

func (s *DynamoJudgeStorage) GetAll(ctx context.Context) ([]*Judge, error) {
	var judges []*Judge
	if err := scanAll(ctx, s.Client, &dynamodb.ScanInput{TableName: &s.TableName}, &judges); err != nil {
		logging.Log.Errorf("JUDGE: scan failed: %v", err)
		return nil, err
	}
	return judges, nil
}

// Put creates or replaces a judge. Reassigning a judge's type keeps their earlier scores.
func (s *DynamoJudgeStorage) Put(ctx context.Context, judge *Judge) error {
	item, err := attributevalue.MarshalMap(judge)
	if err != nil {
		logging.Log.Errorf("JUDGE: failed to marshal judge: %v", err)
		return err
	}

	if _, err := s.Client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.TableName, Item: item}); err != nil {
		logging.Log.Errorf("JUDGE: failed to put judge %d: %v", judge.ID, err)
		return err
	}
	return nil
}

func (s *DynamoJudgeStorage) Delete(ctx context.Context, id int) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           &s.TableName,
		Key:                 intKey(id),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		logging.Log.Errorf("JUDGE: failed to delete judge with ID %d: %v", id, err)
		return err
	}
	logging.Log.Infof("JUDGE: deleted judge with ID %d", id)
	return nil
}

func (s *DynamoJudgeStorage) MarkTutorialShown(ctx context.Context, id int) error {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.TableName),
		Key:                       intKey(id),
		UpdateExpression:          aws.String("SET TutorialShown = :t"),
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":t": boolValue(true)},
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		logging.Log.Errorf("JUDGE: failed to mark tutorial for %d: %v", id, err)
		return err
	}
	return nil
}
