package api

import (
	"context"
	"fmt"
	"os"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/controllers"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/audit"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/chat"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/provisioning"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/views"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	ctx := context.Background()
	r := transport.NewRouter(s.config.GinMode)

	// Create storage
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}
	dynamoClient := dynamodb.NewFromConfig(cfg)

	participantStorage := &storage.DynamoParticipantStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameParticipants,
	}
	teamStorage := &storage.DynamoTeamStorage{
		Client:                dynamoClient,
		TableName:             s.config.TableNameTeams,
		ParticipantsTableName: s.config.TableNameParticipants,
		SlotsTableName:        s.config.TableNameSlots,
	}
	criteriaStorage := &storage.DynamoCriteriaStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameCriteria,
	}
	judgeStorage := &storage.DynamoJudgeStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameJudges,
	}
	scoreStorage := &storage.DynamoScoreStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameScores,
	}
	remarkStorage := &storage.DynamoRemarkStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameRemarks,
	}
	settingsStorage := &storage.DynamoSettingsStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameSettings,
	}

	auditLog := s.openAudit(ctx)

	rdb := redis.NewClient(&redis.Options{
		Addr:     s.config.RedisConfig.Address,
		Password: s.config.RedisConfig.Password,
		DB:       s.config.RedisConfig.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logging.Log.Warnf("redis at %s is not reachable, chat and views will fail: %v", s.config.RedisConfig.Address, err)
	}

	if s.config.GithubConfig.Token == "" {
		logging.Log.Warn("github token is not set, provisioning calls will be rejected by GitHub")
	}
	provisioner := provisioning.NewProvisioner(
		provisioning.NewGithubProviderWithToken(s.config.GithubConfig.Token, s.config.GithubConfig.Org),
		s.config.GithubConfig.RepoPrefix,
	)

	auth := transport.AuthMiddleware(s.config.JWTSecret, func(ctx context.Context, userID int) (domain.JudgeType, error) {
		judge, err := judgeStorage.Get(ctx, userID)
		if err != nil {
			return "", err
		}
		return domain.JudgeType(judge.Type), nil
	})

	//Register controllers
	controllers.NewParticipantController(participantStorage, settingsStorage).RegisterRoutes(r, auth)
	controllers.NewTeamController(teamStorage, participantStorage, settingsStorage, s.config.MaxTeamSize).RegisterRoutes(r, auth)
	controllers.NewIdeaController(teamStorage, settingsStorage).RegisterRoutes(r, auth)
	controllers.NewCriteriaMetaController(criteriaStorage, scoreStorage, auditLog).RegisterRoutes(r, auth)
	controllers.NewJudgeController(judgeStorage).RegisterRoutes(r, auth)
	controllers.NewScoringController(scoreStorage, criteriaStorage, teamStorage).RegisterRoutes(r, auth)
	controllers.NewProgressController(teamStorage, criteriaStorage, scoreStorage, settingsStorage, auditLog).RegisterRoutes(r, auth)
	controllers.NewRemarkController(remarkStorage, teamStorage).RegisterRoutes(r, auth)
	controllers.NewAttendanceController(participantStorage, auditLog).RegisterRoutes(r, auth)
	controllers.NewAllocationController(teamStorage, s.config.Arenas, auditLog).RegisterRoutes(r, auth)
	controllers.NewGithubController(provisioner, teamStorage, participantStorage, auditLog).RegisterRoutes(r, auth)
	controllers.NewChatController(chat.NewService(rdb), participantStorage, teamStorage).RegisterRoutes(r, auth)
	controllers.NewAuditController(auditLog).RegisterRoutes(r, auth)
	controllers.NewSettingsController(settingsStorage, views.NewStore(rdb), auditLog).RegisterRoutes(r, auth)
	controllers.NewAnalyticsController(participantStorage, teamStorage).RegisterRoutes(r, auth)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// openAudit falls back to discarding entries when no database is configured or reachable.
func (s *Server) openAudit(ctx context.Context) audit.Log {
	if s.config.PostgresDSN == "" {
		logging.Log.Warn("audit database is not configured, audit entries are discarded")
		return audit.Nop{}
	}
	log, err := audit.Open(ctx, s.config.PostgresDSN)
	if err != nil {
		logging.Log.Errorf("audit database unavailable, audit entries are discarded: %v", err)
		return audit.Nop{}
	}
	return log
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server on the configured port
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
