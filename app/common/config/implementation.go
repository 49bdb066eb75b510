package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	AppConfig       AppConfig
	Database        DatabaseConfig
	InMemoryStorage InMemoryStorageConfig
	Auth0           Auth0Config
	Reddit          RedditConfig
	SMTP            SMTPConfig
	Affiliate       AffiliateConfig
}

type AppConfig struct {
	Port        string
	FrontendURL string
	LogLevel    string
}

type DatabaseConfig struct {
	URI          string
	DatabaseName string
}

type InMemoryStorageConfig struct {
	Host     string
	Port     string
	Password string
}

type Auth0Config struct {
	Domain       string
	APIAudience  string
	ClientID     string
	ClientSecret string
}

func (ac Auth0Config) IssuerURL() string {
	return fmt.Sprintf("https://%s/", ac.Domain)
}

func (ac Auth0Config) JWKSURL() string {
	return fmt.Sprintf("https://%s/.well-known/jwks.json", ac.Domain)
}

type RedditConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	Username     string
	Password     string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string

	From     string
	FromName string
}

func (sc SMTPConfig) PortAsInt() (int, error) {
	port, err := strconv.Atoi(sc.Port)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid SMTP port %q", sc.Port)
	}

	return port, nil
}

type AffiliateConfig struct {
	AmazonAssociateID  string
	WalmartAffiliateID string
	TargetAffiliateID  string
	BestBuyAffiliateID string
	EbayAffiliateID    string
}

func (isc InMemoryStorageConfig) Addr() string {
	return net.JoinHostPort(isc.Host, isc.Port)
}

func BuildFromEnv() Config {
	return Config{
		AppConfig: AppConfig{
			Port:        getEnvOrDefault(Port, "8000"),
			FrontendURL: getEnvOrDefault(FrontendURL, "http://localhost:3000"),
			LogLevel:    getEnvOrDefault(LogLevel, "info"),
		},

		Database: DatabaseConfig{
			URI:          getEnvOrDefault(MongoDBURI, "mongodb://localhost:27017"),
			DatabaseName: getEnvOrDefault(DatabaseName, "buyitforlife"),
		},

		InMemoryStorage: InMemoryStorageConfig{
			Host:     getEnvOrDefault(RedisHost, "localhost"),
			Port:     getEnvOrDefault(RedisPort, "6379"),
			Password: os.Getenv(RedisPassword),
		},

		Auth0: Auth0Config{
			Domain:       os.Getenv(Auth0Domain),
			APIAudience:  os.Getenv(Auth0APIAudience),
			ClientID:     os.Getenv(Auth0ClientID),
			ClientSecret: os.Getenv(Auth0ClientSecret),
		},

		Reddit: RedditConfig{
			ClientID:     os.Getenv(RedditClientID),
			ClientSecret: os.Getenv(RedditClientSecret),
			UserAgent:    getEnvOrDefault(RedditUserAgent, "BuyItForLifeSaleTracker/1.0"),
			Username:     os.Getenv(RedditUsername),
			Password:     os.Getenv(RedditPassword),
		},

		SMTP: SMTPConfig{
			Host:     getEnvOrDefault(EmailHost, "smtp.sendgrid.net"),
			Port:     getEnvOrDefault(EmailPort, "587"),
			Username: getEnvOrDefault(EmailUsername, "apikey"),
			Password: os.Getenv(EmailPassword),
			From:     getEnvOrDefault(EmailFrom, "notifications@buyitforlife-tracker.com"),
			FromName: getEnvOrDefault(EmailFromName, "BuyItForLife Sale Tracker"),
		},

		Affiliate: AffiliateConfig{
			AmazonAssociateID:  getEnvOrDefault(AmazonAssociateID, "yourtag-20"),
			WalmartAffiliateID: getEnvOrDefault(WalmartAffiliateID, "yourwalmartid"),
			TargetAffiliateID:  getEnvOrDefault(TargetAffiliateID, "yourtargetid"),
			BestBuyAffiliateID: getEnvOrDefault(BestBuyAffiliateID, "yourbestbuyid"),
			EbayAffiliateID:    getEnvOrDefault(EbayAffiliateID, "yourebayid"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

var ErrEmptyEnvVar = errors.New("empty environment variable")

func CheckEnvironmentVars() error {
	requiredEnvVars := []string{
		MongoDBURI,

		Auth0Domain,
		Auth0APIAudience,
		Auth0ClientID,
		Auth0ClientSecret,

		RedditClientID,
		RedditClientSecret,
		RedditUsername,
		RedditPassword,

		EmailPassword,
	}

	var emptyEnvs []string

	for _, envVarKey := range requiredEnvVars {
		if value := os.Getenv(envVarKey); value == "" {
			emptyEnvs = append(emptyEnvs, envVarKey)
		}
	}

	if len(emptyEnvs) > 0 {
		return errors.Wrapf(
			ErrEmptyEnvVar,
			"empty environment variables: %s",
			strings.Join(emptyEnvs, ", "),
		)
	}

	return nil
}
