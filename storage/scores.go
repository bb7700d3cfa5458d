package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type ScoreStorage interface {
	Upsert(ctx context.Context, score *Score) error
	GetByTeam(ctx context.Context, teamID int) ([]*Score, error)
	GetAll(ctx context.Context) ([]*Score, error)
	CountByCriteria(ctx context.Context, criteriaID int) (int, error)
}

// DynamoScoreStorage partitions scores by team; the sort key holds criteria and judge.
type DynamoScoreStorage struct {
	Client    *dynamodb.Client
	TableName string
}

// Upsert writes the score for (team, criteria, judge), replacing the value of an
// earlier submission and keeping its CreatedAt.
func (s *DynamoScoreStorage) Upsert(ctx context.Context, score *Score) error {
	now := time.Now().UTC()
	score.PK, score.SortKey = ScoreKey(score.TeamID, score.CriteriaID, score.JudgeID)

	ts, err := attributevalue.Marshal(now)
	if err != nil {
		return err
	}
	out, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TableName),
		Key: map[string]types.AttributeValue{
			"PK": stringValue(score.PK),
			"SK": stringValue(score.SortKey),
		},
		UpdateExpression: aws.String("SET TeamID = :team, CriteriaID = :crit, JudgeID = :judge, Score = :score, " +
			"UpdatedAt = :now, CreatedAt = if_not_exists(CreatedAt, :now)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":team":  numberValue(score.TeamID),
			":crit":  numberValue(score.CriteriaID),
			":judge": numberValue(score.JudgeID),
			":score": numberValue(score.Score),
			":now":   ts,
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		logging.Log.Errorf("SCORE: failed to upsert %s %s: %v", score.PK, score.SortKey, err)
		return err
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, score); err != nil {
		logging.Log.Errorf("SCORE: failed to unmarshal upserted score: %v", err)
		return err
	}
	return nil
}

func (s *DynamoScoreStorage) GetByTeam(ctx context.Context, teamID int) ([]*Score, error) {
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(s.Client, &dynamodb.QueryInput{
		TableName:              aws.String(s.TableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": stringValue(fmt.Sprintf("team#%d", teamID)),
		},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			logging.Log.Errorf("SCORE: query for team %d failed: %v", teamID, err)
			return nil, err
		}
		items = append(items, page.Items...)
	}

	var scores []*Score
	if err := attributevalue.UnmarshalListOfMaps(items, &scores); err != nil {
		logging.Log.Errorf("SCORE: failed to unmarshal scores: %v", err)
		return nil, err
	}
	return scores, nil
}

func (s *DynamoScoreStorage) GetAll(ctx context.Context) ([]*Score, error) {
	var scores []*Score
	if err := scanAll(ctx, s.Client, &dynamodb.ScanInput{TableName: &s.TableName}, &scores); err != nil {
		logging.Log.Errorf("SCORE: scan failed: %v", err)
		return nil, err
	}
	return scores, nil
}

func (s *DynamoScoreStorage) CountByCriteria(ctx context.Context, criteriaID int) (int, error) {
	n, err := countAll(ctx, s.Client, &dynamodb.ScanInput{
		TableName:                 aws.String(s.TableName),
		FilterExpression:          aws.String("CriteriaID = :crit"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":crit": numberValue(criteriaID)},
	})
	if err != nil {
		logging.Log.Errorf("SCORE: count for criteria %d failed: %v", criteriaID, err)
		return 0, err
	}
	return n, nil
}
