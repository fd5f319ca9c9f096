// Package clovaboot provides shared cold-start bootstrap logic.
//
// The server and Lambda binaries need some subset of: AWS config, the CLOVA
// secrets (OCR secret key, Studio bearer token), S3, and the DynamoDB
// suggestion store. This package extracts the common init patterns so each
// binary's startup is a short composition of helpers. Secrets resolve from
// the environment first, falling back to SSM Parameter Store in AWS.
package clovaboot

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/gleelab/glee-suggester/internal/store"
)

// Environment variables and their SSM parameter fallbacks.
const (
	envOCRURL        = "CLOVA_OCR_URL"
	envOCRSecret     = "CLOVA_OCR_SECRET"
	envBearerToken   = "CLOVA_AI_BEARER_TOKEN"
	envStudioBaseURL = "CLOVA_STUDIO_BASE_URL"

	ssmOCRSecretParam   = "/glee-suggester/prod/clova-ocr-secret"
	ssmBearerTokenParam = "/glee-suggester/prod/clova-bearer-token"
)

// ClovaConfig carries the resolved CLOVA endpoints and secrets.
type ClovaConfig struct {
	OCRURL        string
	OCRSecret     string
	StudioBaseURL string // empty means the default Studio endpoint
	BearerToken   string
}

// AWSClients holds the core AWS SDK clients used by the Lambda binary.
type AWSClients struct {
	Config aws.Config
	SSM    *ssm.Client
}

// InitAWS loads the default AWS config and returns it along with common clients.
func InitAWS() AWSClients {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", cfg.Region).Msg("AWS config loaded")
	return AWSClients{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
	}
}

// LoadClovaConfig resolves the CLOVA configuration from the environment,
// falling back to SSM for the two secrets when a client is provided.
// Fatals when a secret cannot be resolved either way.
func LoadClovaConfig(ssmClient *ssm.Client) ClovaConfig {
	cfg := ClovaConfig{
		OCRURL:        os.Getenv(envOCRURL),
		OCRSecret:     os.Getenv(envOCRSecret),
		StudioBaseURL: os.Getenv(envStudioBaseURL),
		BearerToken:   os.Getenv(envBearerToken),
	}

	if cfg.OCRSecret == "" {
		cfg.OCRSecret = loadSecret(ssmClient, ssmOCRSecretParam, envOCRSecret)
	}
	if cfg.BearerToken == "" {
		cfg.BearerToken = loadSecret(ssmClient, ssmBearerTokenParam, envBearerToken)
	}
	if cfg.OCRURL == "" {
		log.Fatal().Str("envVar", envOCRURL).Msg("CLOVA OCR URL is required")
	}
	return cfg
}

// loadSecret fetches one decrypted parameter from SSM. Fatals on error; a
// binary without its secrets cannot serve anything.
func loadSecret(ssmClient *ssm.Client, paramName, envVar string) string {
	if ssmClient == nil {
		log.Fatal().Str("envVar", envVar).Msg("Secret not set and no SSM client available")
	}
	start := time.Now()
	result, err := ssmClient.GetParameter(context.Background(), &ssm.GetParameterInput{
		Name:           &paramName,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		log.Fatal().Err(err).Str("param", paramName).Msg("Failed to read secret from SSM")
	}
	log.Debug().Str("param", paramName).Dur("elapsed", time.Since(start)).Msg("Secret loaded from SSM")
	return *result.Parameter.Value
}

// InitS3 creates an S3 client and reads the screenshot bucket name from the
// given environment variable. Returns an empty bucket (with a warning) when
// not configured; the S3-reference input path is then disabled.
func InitS3(cfg aws.Config, bucketEnvVar string) (*s3.Client, string) {
	bucket := os.Getenv(bucketEnvVar)
	if bucket == "" {
		log.Warn().Str("envVar", bucketEnvVar).Msg("Screenshot bucket not set — S3 input path disabled")
		return nil, ""
	}
	return s3.NewFromConfig(cfg), bucket
}

// InitDynamo creates a DynamoDB suggestion store from the given config and
// table name environment variable. Returns nil (with a warning) when not
// configured; the suggestion CRUD surface then runs on the in-memory store.
func InitDynamo(cfg aws.Config, tableEnvVar string) *store.DynamoStore {
	tableName := os.Getenv(tableEnvVar)
	if tableName == "" {
		log.Warn().Str("envVar", tableEnvVar).Msg("DynamoDB table not set — suggestion store disabled")
		return nil
	}
	return store.NewDynamoStore(dynamodb.NewFromConfig(cfg), tableName)
}
