/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	derrors "github.com/suparena/dynamoentity/errors"
)

// Environment variables read by ConfigFromEnv in addition to the table variable.
const (
	EnvRegion   = "AWS_REGION"
	EnvEndpoint = "DDB_ENDPOINT"
)

// Config describes how to reach a DynamoDB table.
// Empty fields fall back to the AWS SDK default configuration chain.
type Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	TableName string `yaml:"tableName"`
}

// LoadConfigFile reads a YAML encoded Config.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.TableName == "" {
		return cfg, &derrors.StorageError{
			Op:   "configure",
			Kind: derrors.ErrMissingConfiguration,
			Err:  fmt.Errorf("tableName is not set in %s", path),
		}
	}
	return cfg, nil
}

// ConfigFromEnv builds a Config from the environment, loading a .env file
// when one exists. The table name is read from tableVar and must be set.
func ConfigFromEnv(tableVar string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	tableName := os.Getenv(tableVar)
	if tableName == "" {
		return Config{}, derrors.NewMissingConfigurationError(tableVar)
	}

	return Config{
		Region:    os.Getenv(EnvRegion),
		Endpoint:  os.Getenv(EnvEndpoint),
		TableName: tableName,
	}, nil
}

// NewDynamoDBClient initializes a DynamoDB client from cfg.
func NewDynamoDBClient(ctx context.Context, cfg Config) (*sdk.Client, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// NewDaoFromEnv creates a Dao for the table named by the tableVar environment variable.
func NewDaoFromEnv[T any, K any](ctx context.Context, tableVar string, opts ...Option) (*Dao[T, K], error) {
	cfg, err := ConfigFromEnv(tableVar)
	if err != nil {
		return nil, err
	}
	return NewDaoFromConfig[T, K](ctx, cfg, opts...)
}

// NewDaoFromConfig creates a Dao with a new client built from cfg.
func NewDaoFromConfig[T any, K any](ctx context.Context, cfg Config, opts ...Option) (*Dao[T, K], error) {
	client, err := NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewDao[T, K](client, cfg.TableName, opts...)
}
