package storage

import (
	"context"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type CriteriaStorage interface {
	Get(ctx context.Context, id int) (*Criteria, error)
	GetAll(ctx context.Context) ([]*Criteria, error)
	GetByJudgeType(ctx context.Context, judgeType string) ([]*Criteria, error)
	Create(ctx context.Context, criteria *Criteria) error
	Update(ctx context.Context, criteria *Criteria) error
	Delete(ctx context.Context, id int) error
}

type DynamoCriteriaStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoCriteriaStorage) Get(ctx context.Context, id int) (*Criteria, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       intKey(id),
	})
	if err != nil {
		logging.Log.Errorf("CRITERIA: GetItem for ID %d failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var criteria Criteria
	if err := attributevalue.UnmarshalMap(out.Item, &criteria); err != nil {
		logging.Log.Errorf("CRITERIA: failed to unmarshal criteria: %v", err)
		return nil, err
	}
	return &criteria, nil
}

func (s *DynamoCriteriaStorage) GetAll(ctx context.Context) ([]*Criteria, error) {
	var criteria []*Criteria
	if err := scanAll(ctx, s.Client, &dynamodb.ScanInput{TableName: &s.TableName}, &criteria); err != nil {
		logging.Log.Errorf("CRITERIA: scan failed: %v", err)
		return nil, err
	}
	return criteria, nil
}

func (s *DynamoCriteriaStorage) GetByJudgeType(ctx context.Context, judgeType string) ([]*Criteria, error) {
	var criteria []*Criteria
	err := scanAll(ctx, s.Client, &dynamodb.ScanInput{
		TableName:                 &s.TableName,
		FilterExpression:          aws.String("JudgeType = :jt"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":jt": stringValue(judgeType)},
	}, &criteria)
	if err != nil {
		logging.Log.Errorf("CRITERIA: scan for judge type %s failed: %v", judgeType, err)
		return nil, err
	}
	return criteria, nil
}

func (s *DynamoCriteriaStorage) Create(ctx context.Context, criteria *Criteria) error {
	item, err := attributevalue.MarshalMap(criteria)
	if err != nil {
		logging.Log.Errorf("CRITERIA: failed to marshal criteria: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			logging.Log.Warnf("CRITERIA: item with ID %d already exists", criteria.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("CRITERIA: failed to create criteria: %v", err)
		return err
	}
	return nil
}

func (s *DynamoCriteriaStorage) Update(ctx context.Context, criteria *Criteria) error {
	item, err := attributevalue.MarshalMap(criteria)
	if err != nil {
		logging.Log.Errorf("CRITERIA: failed to marshal updated criteria: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		logging.Log.Errorf("CRITERIA: failed to update criteria: %v", err)
		return err
	}
	return nil
}

// Delete does not look at scores; callers check ScoreStorage.CountByCriteria first.
func (s *DynamoCriteriaStorage) Delete(ctx context.Context, id int) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           &s.TableName,
		Key:                 intKey(id),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		logging.Log.Errorf("CRITERIA: failed to delete criteria with ID %d: %v", id, err)
		return err
	}
	logging.Log.Infof("CRITERIA: deleted criteria with ID %d", id)
	return nil
}
