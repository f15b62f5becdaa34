package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// The bot runs as a single container with all settings supplied as
// environment variables. Guild and channel identifiers are Discord
// snowflakes kept as strings.

type Config struct {
	DiscordToken        string `mapstructure:"DISCORD_TOKEN"`
	GuildID             string `mapstructure:"GUILD_ID"`
	AttendanceChannelID string `mapstructure:"ATTENDANCE_CHANNEL_ID"`
	LeadershipChannelID string `mapstructure:"LEADERSHIP_CHANNEL_ID"`

	CutoffTime    string `mapstructure:"CUTOFF_TIME"`
	ExcludedRoles string `mapstructure:"EXCLUDED_ROLES"`
	FineAmount    int    `mapstructure:"FINE_AMOUNT"`
	FineThreshold int    `mapstructure:"FINE_THRESHOLD"`
	Timezone      string `mapstructure:"TIMEZONE"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	ServerPort string `mapstructure:"SERVER_PORT"`

	AWSRegion             string `mapstructure:"AWS_REGION"`
	AWSEndpoint           string `mapstructure:"AWS_ENDPOINT"`
	AttendanceSQSQueueURL string `mapstructure:"ATTENDANCE_SQS_QUEUE_URL"`
	HRAPIURL              string `mapstructure:"HR_API_URL"`
	LeadershipEmail       string `mapstructure:"LEADERSHIP_EMAIL"`
	ReportSenderEmail     string `mapstructure:"REPORT_SENDER_EMAIL"`
	IsLocalDev            bool   `mapstructure:"IS_LOCAL_DEV"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("DISCORD_TOKEN", "")
	viper.SetDefault("GUILD_ID", "")
	viper.SetDefault("ATTENDANCE_CHANNEL_ID", "")
	viper.SetDefault("LEADERSHIP_CHANNEL_ID", "")
	viper.SetDefault("CUTOFF_TIME", "10:20:00")
	viper.SetDefault("EXCLUDED_ROLES", "CEO,CTO,CFO,COO")
	viper.SetDefault("FINE_AMOUNT", 2000)
	viper.SetDefault("FINE_THRESHOLD", 3)
	viper.SetDefault("TIMEZONE", "Local")
	viper.SetDefault("DB_HOST", "db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "attendance_db")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	viper.SetDefault("ATTENDANCE_SQS_QUEUE_URL", "http://localstack:4566/000000000000/attendance-events")
	viper.SetDefault("HR_API_URL", "http://localhost:8081/")
	viper.SetDefault("LEADERSHIP_EMAIL", "")
	viper.SetDefault("REPORT_SENDER_EMAIL", "attendance-bot@example.com")
	viper.SetDefault("IS_LOCAL_DEV", false)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}

// ExcludedRoleNames splits the comma-separated EXCLUDED_ROLES setting.
func (c Config) ExcludedRoleNames() []string {
	if c.ExcludedRoles == "" {
		return nil
	}
	parts := strings.Split(c.ExcludedRoles, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

// Location resolves the configured office timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
