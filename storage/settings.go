package storage

import (
	"context"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type SettingsStorage interface {
	Get(ctx context.Context) (*AppSettings, error)
	Put(ctx context.Context, settings *AppSettings) error
}

// DynamoSettingsStorage keeps a single settings row.
type DynamoSettingsStorage struct {
	Client    *dynamodb.Client
	TableName string
}

// Get returns closed-everything defaults until settings are first saved.
func (s *DynamoSettingsStorage) Get(ctx context.Context) (*AppSettings, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       stringKey(settingsID),
	})
	if err != nil {
		logging.Log.Errorf("SETTINGS: GetItem failed: %v", err)
		return nil, err
	}
	if out.Item == nil {
		return &AppSettings{ID: settingsID}, nil
	}

	var settings AppSettings
	if err := attributevalue.UnmarshalMap(out.Item, &settings); err != nil {
		logging.Log.Errorf("SETTINGS: failed to unmarshal settings: %v", err)
		return nil, err
	}
	return &settings, nil
}

func (s *DynamoSettingsStorage) Put(ctx context.Context, settings *AppSettings) error {
	settings.ID = settingsID
	item, err := attributevalue.MarshalMap(settings)
	if err != nil {
		logging.Log.Errorf("SETTINGS: failed to marshal settings: %v", err)
		return err
	}

	if _, err := s.Client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &s.TableName, Item: item}); err != nil {
		logging.Log.Errorf("SETTINGS: failed to put settings: %v", err)
		return err
	}
	logging.Log.Infof("SETTINGS: updated %+v", *settings)
	return nil
}
