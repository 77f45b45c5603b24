// Package app wires configuration, AWS clients and use cases into a handler.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/prometheus/client_golang/prometheus"

	"greeting-agent/handler"
	"greeting-agent/internal/config"
	"greeting-agent/internal/integrations/paramstore"
	"greeting-agent/internal/observability/metrics"
	"greeting-agent/internal/repository"
	"greeting-agent/internal/script"
	"greeting-agent/internal/usecase"
)

// NewLogger returns the JSON logger used by every entry point.
func NewLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// Build assembles the request handler. reg receives the service metrics; nil
// uses the default Prometheus registerer.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*handler.Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	dynamoClient := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	})
	stateClient, err := repository.New(dynamoClient, cfg.StateTable, repository.WithTTL(cfg.SessionTTL))
	if err != nil {
		return nil, fmt.Errorf("create state client: %w", err)
	}

	var params interface {
		usecase.ParamGetter
		usecase.ParamPutter
	} = paramstore.NewStatic(nil)
	if cfg.UseParamStore {
		ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
		if err != nil {
			return nil, fmt.Errorf("create SSM client: %w", err)
		}
		params = ssmClient
	} else {
		logger.Info("parameter store disabled, serving built-in content")
	}

	content, err := usecase.NewContentLoader(params, cfg.ParamPrefix, script.Default())
	if err != nil {
		return nil, fmt.Errorf("create content loader: %w", err)
	}
	m := metrics.NewGreetingMetrics(reg)

	chat, err := usecase.NewChatService(content, stateClient, nil, m)
	if err != nil {
		return nil, fmt.Errorf("create chat service: %w", err)
	}
	deck, err := usecase.NewDeckService(stateClient, script.DefaultCards(), script.DefaultCallToAction(), m)
	if err != nil {
		return nil, fmt.Errorf("create deck service: %w", err)
	}
	scripts, err := usecase.NewScriptService(content, params)
	if err != nil {
		return nil, fmt.Errorf("create script service: %w", err)
	}
	return handler.NewHandler(chat, deck, scripts, logger)
}
