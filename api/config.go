package api

import (
	"strings"
	"sync"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	StorageConfig
	ServerConfig
	AuthConfig
	AuditConfig
	RedisConfig
	GithubConfig
	EventConfig
}

type StorageConfig struct {
	TableNameParticipants string
	TableNameTeams        string
	TableNameCriteria     string
	TableNameJudges       string
	TableNameScores       string
	TableNameRemarks      string
	TableNameSlots        string
	TableNameSettings     string
}

type ServerConfig struct {
	Port      int
	GinMode   string
	LogLevel  string
	LogFormat string
}

type AuthConfig struct {
	JWTSecret string
}

type AuditConfig struct {
	// PostgresDSN empty disables the audit log.
	PostgresDSN string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type GithubConfig struct {
	Org        string
	Token      string
	RepoPrefix string
}

type EventConfig struct {
	MaxTeamSize int
	Arenas      []string
}

var settingsOnce sync.Once

// LoadEnv reads config.yaml from the working directory. A .env file, if present,
// is loaded into the environment first so it can override file values.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		logging.Log.Debugf("no .env file loaded: %v", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return viper.ReadInConfig()
}

func ReadConfig() *Config {

	var conf = &Config{
		StorageConfig: StorageConfig{
			TableNameParticipants: getString("storage.TableNameParticipants"),
			TableNameTeams:        getString("storage.TableNameTeams"),
			TableNameCriteria:     getString("storage.TableNameCriteria"),
			TableNameJudges:       getString("storage.TableNameJudges"),
			TableNameScores:       getString("storage.TableNameScores"),
			TableNameRemarks:      getString("storage.TableNameRemarks"),
			TableNameSlots:        getString("storage.TableNameSlots"),
			TableNameSettings:     getString("storage.TableNameSettings"),
		},
		ServerConfig: ServerConfig{
			Port:      getIntOrDefault("server.port", 8080),
			GinMode:   getStringOrDefault("server.ginMode", "debug"),
			LogLevel:  getStringOrDefault("server.logLevel", "debug"),
			LogFormat: getStringOrDefault("server.logFormat", "text"),
		},
		AuthConfig: AuthConfig{
			JWTSecret: getString("auth.jwtSecret"),
		},
		AuditConfig: AuditConfig{
			PostgresDSN: getStringOrDefault("audit.postgresDSN", ""),
		},
		RedisConfig: RedisConfig{
			Address:  getStringOrDefault("redis.address", "localhost:6379"),
			Password: getStringOrDefault("redis.password", ""),
			DB:       getIntOrDefault("redis.db", 0),
		},
		GithubConfig: GithubConfig{
			Org:        getStringOrDefault("github.org", ""),
			Token:      getStringOrDefault("github.token", ""),
			RepoPrefix: getStringOrDefault("github.repoPrefix", "hackfest"),
		},
		EventConfig: EventConfig{
			MaxTeamSize: getIntOrDefault("event.maxTeamSize", 4),
			Arenas:      getStringSliceOrDefault("event.arenas", nil),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func getString(name string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Fatalf("required environment variable '%s' is missing", name)
	return ""
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringSliceOrDefault(name string, def []string) []string {
	if viper.IsSet(name) {
		v := viper.GetStringSlice(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
