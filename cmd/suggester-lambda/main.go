// Package main provides the Lambda entry point for the suggestion API. It
// wraps the shared HTTP mux behind API Gateway via the http adapter, with
// cold-start bootstrap resolving CLOVA secrets from SSM and wiring the
// DynamoDB suggestion store and the S3 screenshot input path.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/gleelab/glee-suggester/internal/api"
	"github.com/gleelab/glee-suggester/internal/chat"
	"github.com/gleelab/glee-suggester/internal/clovaboot"
	"github.com/gleelab/glee-suggester/internal/logging"
	"github.com/gleelab/glee-suggester/internal/ocr"
	"github.com/gleelab/glee-suggester/internal/pipeline"
	"github.com/gleelab/glee-suggester/internal/store"
)

var deps api.Deps

func init() {
	logging.InitJSON()

	aws := clovaboot.InitAWS()
	cfg := clovaboot.LoadClovaConfig(aws.SSM)
	s3Client, bucket := clovaboot.InitS3(aws.Config, "SCREENSHOT_BUCKET")
	dynamo := clovaboot.InitDynamo(aws.Config, "SUGGESTION_TABLE")

	deps = api.Deps{
		Pipeline: pipeline.New(
			ocr.NewClovaClient(cfg.OCRURL, cfg.OCRSecret),
			chat.NewClovaClient(cfg.StudioBaseURL, cfg.BearerToken),
		),
		S3:     s3Client,
		Bucket: bucket,
	}
	if dynamo != nil {
		deps.Store = dynamo
	} else {
		deps.Store = store.NewMemoryStore()
	}

	logging.NewStartupLogger("suggester-lambda").
		Backend("clovaOCR", cfg.OCRURL).
		Backend("clovaStudio", cfg.StudioBaseURL).
		Feature("dynamoStore", dynamo != nil).
		Feature("s3Input", s3Client != nil).
		Config("bucket", bucket).
		Log()
}

func main() {
	log.Info().Msg("Starting suggestion Lambda handler")
	lambda.Start(httpadapter.NewV2(api.WithLogging(api.NewMux(deps))).ProxyWithContext)
}
