package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const teamCounterKey = "counter#team"

type TeamStorage interface {
	Get(ctx context.Context, id int) (*Team, error)
	GetAll(ctx context.Context) ([]*Team, error)
	Create(ctx context.Context, team *Team) error
	Update(ctx context.Context, team *Team) error
	Delete(ctx context.Context, id int) error
	AddMember(ctx context.Context, teamID, participantID, maxMembers int) error
	RemoveMember(ctx context.Context, teamID, participantID int) error
	SetProgress(ctx context.Context, change ProgressChange) error
	AllocateArena(ctx context.Context, teamID int, arena string) error
}

// DynamoTeamStorage keeps teams in TableName. Membership changes also touch the
// participants table and award/arena claims live in the slots table.
type DynamoTeamStorage struct {
	Client                *dynamodb.Client
	TableName             string
	ParticipantsTableName string
	SlotsTableName        string
}

func (s *DynamoTeamStorage) GetAll(ctx context.Context) ([]*Team, error) {
	var teams []*Team
	if err := scanAll(ctx, s.Client, &dynamodb.ScanInput{TableName: &s.TableName}, &teams); err != nil {
		logging.Log.Errorf("TEAM: scan failed: %v", err)
		return nil, err
	}
	return teams, nil
}

func (s *DynamoTeamStorage) Get(ctx context.Context, id int) (*Team, error) {
	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       intKey(id),
	})
	if err != nil {
		logging.Log.Errorf("TEAM: GetItem for ID %d failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		logging.Log.Warnf("TEAM: no team found with ID %d", id)
		return nil, ErrNotFound
	}

	var team Team
	if err := attributevalue.UnmarshalMap(out.Item, &team); err != nil {
		logging.Log.Errorf("TEAM: failed to unmarshal team: %v", err)
		return nil, err
	}
	return &team, nil
}

// nextNumber bumps the team counter in the slots table.
func (s *DynamoTeamStorage) nextNumber(ctx context.Context) (int, error) {
	out, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.SlotsTableName),
		Key:                       stringKey(teamCounterKey),
		UpdateExpression:          aws.String("ADD Seq :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":one": numberValue(1)},
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}
	seq, ok := out.Attributes["Seq"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, ErrConditionFailed
	}
	return strconv.Atoi(seq.Value)
}

// Create assigns the next team number, stores the team and binds the leader to it
// in one transaction. The leader must not already be in a team.
func (s *DynamoTeamStorage) Create(ctx context.Context, team *Team) error {
	number, err := s.nextNumber(ctx)
	if err != nil {
		logging.Log.Errorf("TEAM: failed to allocate team number: %v", err)
		return err
	}
	team.ID = number
	team.Number = number
	team.Members = []int{team.LeaderID}
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}

	item, err := attributevalue.MarshalMap(team)
	if err != nil {
		logging.Log.Errorf("TEAM: failed to marshal team: %v", err)
		return err
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(s.TableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
			s.bindParticipant(team.LeaderID, team.ID),
		},
	})
	if err != nil {
		switch failedConditionAt(err) {
		case 0:
			logging.Log.Warnf("TEAM: item with ID %d already exists", team.ID)
			return ErrItemWithIDAlreadyExists
		case 1:
			return ErrAlreadyInTeam
		}
		logging.Log.Errorf("TEAM: failed to create team: %v", err)
		return err
	}
	logging.Log.Infof("TEAM: created team %d (%s) led by %d", team.ID, team.Name, team.LeaderID)
	return nil
}

func (s *DynamoTeamStorage) bindParticipant(participantID, teamID int) types.TransactWriteItem {
	return types.TransactWriteItem{Update: &types.Update{
		TableName:           aws.String(s.ParticipantsTableName),
		Key:                 intKey(participantID),
		UpdateExpression:    aws.String("SET TeamID = :team"),
		ConditionExpression: aws.String("attribute_exists(PK) AND TeamID = :zero"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":team": numberValue(teamID),
			":zero": numberValue(0),
		},
	}}
}

func (s *DynamoTeamStorage) unbindParticipant(participantID, teamID int) types.TransactWriteItem {
	return types.TransactWriteItem{Update: &types.Update{
		TableName:           aws.String(s.ParticipantsTableName),
		Key:                 intKey(participantID),
		UpdateExpression:    aws.String("SET TeamID = :zero"),
		ConditionExpression: aws.String("TeamID = :team"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":team": numberValue(teamID),
			":zero": numberValue(0),
		},
	}}
}

// Update writes the team's editable fields. Progress, Members and Arena go through
// their own conditional writes and are left untouched.
func (s *DynamoTeamStorage) Update(ctx context.Context, team *Team) error {
	values := map[string]types.AttributeValue{
		":name":    stringValue(team.Name),
		":payment": stringValue(team.PaymentStatus),
		":video":   stringValue(team.VideoURL),
		":slug":    stringValue(team.GithubTeamSlug),
	}
	expr := "SET #n = :name, PaymentStatus = :payment, VideoURL = :video, GithubTeamSlug = :slug"

	repos, err := attributevalue.Marshal(team.Repos)
	if err != nil {
		return err
	}
	values[":repos"] = repos
	expr += ", Repos = :repos"

	remove := ""
	if team.Idea != nil {
		idea, err := attributevalue.Marshal(team.Idea)
		if err != nil {
			logging.Log.Errorf("TEAM: failed to marshal idea: %v", err)
			return err
		}
		values[":idea"] = idea
		expr += ", Idea = :idea"
	} else {
		remove = " REMOVE Idea"
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.TableName),
		Key:                       intKey(team.ID),
		UpdateExpression:          aws.String(expr + remove),
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ExpressionAttributeNames:  map[string]string{"#n": "Name"},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		logging.Log.Errorf("TEAM: failed to update team: %v", err)
		return err
	}
	return nil
}

// Delete removes the team, frees its members and releases any award or arena slot.
func (s *DynamoTeamStorage) Delete(ctx context.Context, id int) error {
	team, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	items := []types.TransactWriteItem{{Delete: &types.Delete{
		TableName: aws.String(s.TableName),
		Key:       intKey(id),
	}}}
	for _, member := range team.Members {
		items = append(items, s.unbindParticipant(member, id))
	}
	progress := domain.TeamProgress(team.Progress)
	if progress.IsAward() {
		items = append(items, s.releaseSlot(domain.AwardSlotKey(progress, team.Track()), id))
	}
	if team.Arena != "" {
		items = append(items, s.releaseSlot(ArenaSlotKey(team.Arena), id))
	}

	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		if isConditionFailed(err) {
			return ErrConditionFailed
		}
		logging.Log.Errorf("TEAM: failed to delete team with ID %d: %v", id, err)
		return err
	}
	logging.Log.Infof("TEAM: deleted team with ID %d", id)
	return nil
}

// AddMember adds participantID to the team's member set if the team has room
// and the participant is not in any team yet.
func (s *DynamoTeamStorage) AddMember(ctx context.Context, teamID, participantID, maxMembers int) error {
	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: &types.Update{
				TableName:           aws.String(s.TableName),
				Key:                 intKey(teamID),
				UpdateExpression:    aws.String("ADD Members :member"),
				ConditionExpression: aws.String("attribute_exists(PK) AND (attribute_not_exists(Members) OR size(Members) < :max)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":member": numberSet(participantID),
					":max":    numberValue(maxMembers),
				},
			}},
			s.bindParticipant(participantID, teamID),
		},
	})
	if err != nil {
		switch failedConditionAt(err) {
		case 0:
			return ErrTeamFull
		case 1:
			return ErrAlreadyInTeam
		}
		logging.Log.Errorf("TEAM: failed to add %d to team %d: %v", participantID, teamID, err)
		return err
	}
	logging.Log.Infof("TEAM: participant %d joined team %d", participantID, teamID)
	return nil
}

func (s *DynamoTeamStorage) RemoveMember(ctx context.Context, teamID, participantID int) error {
	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: &types.Update{
				TableName:                 aws.String(s.TableName),
				Key:                       intKey(teamID),
				UpdateExpression:          aws.String("DELETE Members :member"),
				ConditionExpression:       aws.String("contains(Members, :id)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{":member": numberSet(participantID), ":id": numberValue(participantID)},
			}},
			s.unbindParticipant(participantID, teamID),
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrNotFound
		}
		logging.Log.Errorf("TEAM: failed to remove %d from team %d: %v", participantID, teamID, err)
		return err
	}
	logging.Log.Infof("TEAM: participant %d left team %d", participantID, teamID)
	return nil
}

func (s *DynamoTeamStorage) claimSlot(key string, teamID int, now time.Time) (types.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(&Slot{Key: key, TeamID: teamID, ClaimedAt: now})
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{Put: &types.Put{
		TableName:           aws.String(s.SlotsTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}}, nil
}

func (s *DynamoTeamStorage) releaseSlot(key string, teamID int) types.TransactWriteItem {
	return types.TransactWriteItem{Delete: &types.Delete{
		TableName:                 aws.String(s.SlotsTableName),
		Key:                       stringKey(key),
		ConditionExpression:       aws.String("attribute_not_exists(PK) OR TeamID = :team"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":team": numberValue(teamID)},
	}}
}

// SetProgress moves a team from change.From to change.To. The write only succeeds if the
// team is still in From, and award states claim their slot in the same transaction.
// ErrConditionFailed means the team moved concurrently; ErrSlotTaken means another team holds the award.
func (s *DynamoTeamStorage) SetProgress(ctx context.Context, change ProgressChange) error {
	if change.From == change.To {
		return nil
	}

	items := []types.TransactWriteItem{{Update: &types.Update{
		TableName:           aws.String(s.TableName),
		Key:                 intKey(change.TeamID),
		UpdateExpression:    aws.String("SET Progress = :to"),
		ConditionExpression: aws.String("Progress = :from"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to":   stringValue(change.To),
			":from": stringValue(change.From),
		},
	}}}

	to := domain.TeamProgress(change.To)
	if to.IsAward() {
		claim, err := s.claimSlot(domain.AwardSlotKey(to, change.Track), change.TeamID, time.Now().UTC())
		if err != nil {
			return err
		}
		items = append(items, claim)
	}
	from := domain.TeamProgress(change.From)
	if from.IsAward() {
		items = append(items, s.releaseSlot(domain.AwardSlotKey(from, change.Track), change.TeamID))
	}

	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		switch failedConditionAt(err) {
		case 0:
			logging.Log.Warnf("PROGRESS: team %d is no longer %s", change.TeamID, change.From)
			return ErrConditionFailed
		case 1:
			if to.IsAward() {
				return ErrSlotTaken
			}
		}
		logging.Log.Errorf("PROGRESS: failed to move team %d to %s: %v", change.TeamID, change.To, err)
		return err
	}
	logging.Log.Infof("PROGRESS: team %d moved %s -> %s", change.TeamID, change.From, change.To)
	return nil
}

// AllocateArena gives the team exclusive use of arena, releasing the arena it held before.
func (s *DynamoTeamStorage) AllocateArena(ctx context.Context, teamID int, arena string) error {
	team, err := s.Get(ctx, teamID)
	if err != nil {
		return err
	}
	if team.Arena == arena {
		return nil
	}

	claim, err := s.claimSlot(ArenaSlotKey(arena), teamID, time.Now().UTC())
	if err != nil {
		return err
	}
	items := []types.TransactWriteItem{
		claim,
		{Update: &types.Update{
			TableName:           aws.String(s.TableName),
			Key:                 intKey(teamID),
			UpdateExpression:    aws.String("SET Arena = :arena"),
			ConditionExpression: aws.String("attribute_exists(PK)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":arena": stringValue(arena),
			},
		}},
	}
	if team.Arena != "" {
		items = append(items, s.releaseSlot(ArenaSlotKey(team.Arena), teamID))
	}

	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		switch failedConditionAt(err) {
		case 0:
			return ErrSlotTaken
		case 1:
			return ErrNotFound
		}
		logging.Log.Errorf("TEAM: failed to allocate arena %s to team %d: %v", arena, teamID, err)
		return err
	}
	logging.Log.Infof("TEAM: arena %s allocated to team %d", arena, teamID)
	return nil
}
