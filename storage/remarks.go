package storage

import (
	"context"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type RemarkStorage interface {
	Put(ctx context.Context, remark *Remark) error
	GetByTeam(ctx context.Context, teamID int) ([]*Remark, error)
}

// DynamoRemarkStorage holds one remark list per (team, judge).
type DynamoRemarkStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoRemarkStorage) Put(ctx context.Context, remark *Remark) error {
	remark.UpdatedAt = time.Now().UTC()
	item, err := attributevalue.MarshalMap(remark)
	if err != nil {
		logging.Log.Errorf("REMARK: failed to marshal remark: %v", err)
		return err
	}

	if _, err := s.Client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.TableName, Item: item}); err != nil {
		logging.Log.Errorf("REMARK: failed to put remark for team %d by judge %d: %v", remark.TeamID, remark.JudgeID, err)
		return err
	}
	return nil
}

func (s *DynamoRemarkStorage) GetByTeam(ctx context.Context, teamID int) ([]*Remark, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.TableName),
		KeyConditionExpression:    aws.String("PK = :team"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":team": numberValue(teamID)},
	})
	if err != nil {
		logging.Log.Errorf("REMARK: query for team %d failed: %v", teamID, err)
		return nil, err
	}

	var remarks []*Remark
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &remarks); err != nil {
		logging.Log.Errorf("REMARK: failed to unmarshal remarks: %v", err)
		return nil, err
	}
	return remarks, nil
}
