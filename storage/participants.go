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

type ParticipantStorage interface {
	Get(ctx context.Context, id int) (*Participant, error)
	GetAll(ctx context.Context) ([]*Participant, error)
	GetByQRCode(ctx context.Context, code string) (*Participant, error)
	Create(ctx context.Context, participant *Participant) error
	Update(ctx context.Context, participant *Participant) error
	SetQRCode(ctx context.Context, id int, code string) error
	MarkAttended(ctx context.Context, id int, at time.Time) error
	ResetAttendance(ctx context.Context) (int, error)
}

type DynamoParticipantStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoParticipantStorage) Get(ctx context.Context, id int) (*Participant, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       intKey(id),
	})
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: GetItem for ID %d failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var p Participant
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		logging.Log.Errorf("PARTICIPANT: failed to unmarshal participant: %v", err)
		return nil, err
	}
	return &p, nil
}

func (s *DynamoParticipantStorage) GetAll(ctx context.Context) ([]*Participant, error) {
	var participants []*Participant
	if err := scanAll(ctx, s.Client, &dynamodb.ScanInput{TableName: &s.TableName}, &participants); err != nil {
		logging.Log.Errorf("PARTICIPANT: scan failed: %v", err)
		return nil, err
	}
	return participants, nil
}

func (s *DynamoParticipantStorage) GetByQRCode(ctx context.Context, code string) (*Participant, error) {
	var participants []*Participant
	err := scanAll(ctx, s.Client, &dynamodb.ScanInput{
		TableName:                 &s.TableName,
		FilterExpression:          aws.String("QRCode = :code"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":code": stringValue(code)},
	}, &participants)
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: scan by QR code failed: %v", err)
		return nil, err
	}
	if len(participants) == 0 {
		return nil, ErrNotFound
	}
	return participants[0], nil
}

func (s *DynamoParticipantStorage) Create(ctx context.Context, participant *Participant) error {
	if participant.CreatedAt.IsZero() {
		participant.CreatedAt = time.Now().UTC()
	}
	item, err := attributevalue.MarshalMap(participant)
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: failed to marshal participant: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			logging.Log.Warnf("PARTICIPANT: participant with ID %d already exists", participant.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("PARTICIPANT: failed to create participant: %v", err)
		return err
	}
	return nil
}

func (s *DynamoParticipantStorage) Update(ctx context.Context, participant *Participant) error {
	item, err := attributevalue.MarshalMap(participant)
	if err != nil {
		logging.Log.Errorf("PARTICIPANT: failed to marshal updated participant: %v", err)
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
		logging.Log.Errorf("PARTICIPANT: failed to update participant: %v", err)
		return err
	}
	return nil
}

func (s *DynamoParticipantStorage) SetQRCode(ctx context.Context, id int, code string) error {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.TableName),
		Key:                       intKey(id),
		UpdateExpression:          aws.String("SET QRCode = :code"),
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":code": stringValue(code)},
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		logging.Log.Errorf("PARTICIPANT: failed to set QR code for %d: %v", id, err)
		return err
	}
	return nil
}

// MarkAttended fails with ErrConditionFailed when the participant was already marked.
func (s *DynamoParticipantStorage) MarkAttended(ctx context.Context, id int, at time.Time) error {
	ts, err := attributevalue.Marshal(at)
	if err != nil {
		return err
	}
	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.TableName),
		Key:                 intKey(id),
		UpdateExpression:    aws.String("SET Attended = :t, AttendedAt = :at"),
		ConditionExpression: aws.String("attribute_exists(PK) AND Attended = :f"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":  boolValue(true),
			":f":  boolValue(false),
			":at": ts,
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrConditionFailed
		}
		logging.Log.Errorf("PARTICIPANT: failed to mark %d attended: %v", id, err)
		return err
	}
	return nil
}

func (s *DynamoParticipantStorage) ResetAttendance(ctx context.Context) (int, error) {
	participants, err := s.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, p := range participants {
		if !p.Attended {
			continue
		}
		_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(s.TableName),
			Key:                       intKey(p.ID),
			UpdateExpression:          aws.String("SET Attended = :f REMOVE AttendedAt"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":f": boolValue(false)},
		})
		if err != nil {
			logging.Log.Errorf("PARTICIPANT: failed to reset attendance for %d: %v", p.ID, err)
			continue
		}
		updated++
	}
	return updated, nil
}
