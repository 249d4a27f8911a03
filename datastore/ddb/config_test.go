/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/suparena/dynamoentity/datastore/ddb"
	"github.com/suparena/dynamoentity/datastore/testmodels"
	derrors "github.com/suparena/dynamoentity/errors"
)

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("Valid", func(t *testing.T) {
		path := filepath.Join(dir, "ddb.yaml")
		content := "region: eu-west-1\nendpoint: http://localhost:8000\ntableName: profiles\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		cfg, err := ddb.LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile failed: %v", err)
		}
		if cfg.Region != "eu-west-1" || cfg.Endpoint != "http://localhost:8000" || cfg.TableName != "profiles" {
			t.Errorf("Unexpected config: %+v", cfg)
		}
	})

	t.Run("MissingTableName", func(t *testing.T) {
		path := filepath.Join(dir, "notable.yaml")
		if err := os.WriteFile(path, []byte("region: eu-west-1\n"), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if _, err := ddb.LoadConfigFile(path); !derrors.IsMissingConfiguration(err) {
			t.Fatalf("Expected missing configuration, got %v", err)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := ddb.LoadConfigFile(filepath.Join(dir, "absent.yaml")); err == nil {
			t.Fatal("Expected error for a missing file")
		}
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		if err := os.WriteFile(path, []byte("tableName: [unterminated\n"), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if _, err := ddb.LoadConfigFile(path); err == nil {
			t.Fatal("Expected a parse error")
		}
	})
}

func TestConfigFromEnv(t *testing.T) {
	chdir(t, t.TempDir())

	t.Run("Unset", func(t *testing.T) {
		t.Setenv("PROFILES_TABLE", "")
		_, err := ddb.ConfigFromEnv("PROFILES_TABLE")
		if !derrors.IsMissingConfiguration(err) {
			t.Fatalf("Expected missing configuration, got %v", err)
		}
	})

	t.Run("Set", func(t *testing.T) {
		t.Setenv("PROFILES_TABLE", "profiles")
		t.Setenv(ddb.EnvRegion, "us-east-2")
		t.Setenv(ddb.EnvEndpoint, "http://localhost:8000")

		cfg, err := ddb.ConfigFromEnv("PROFILES_TABLE")
		if err != nil {
			t.Fatalf("ConfigFromEnv failed: %v", err)
		}
		if cfg.TableName != "profiles" || cfg.Region != "us-east-2" || cfg.Endpoint != "http://localhost:8000" {
			t.Errorf("Unexpected config: %+v", cfg)
		}
	})

	t.Run("DotEnvFile", func(t *testing.T) {
		t.Setenv("ACCOUNTS_TABLE", "")
		os.Unsetenv("ACCOUNTS_TABLE")
		if err := os.WriteFile(".env", []byte("ACCOUNTS_TABLE=accounts\n"), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		defer os.Remove(".env")

		cfg, err := ddb.ConfigFromEnv("ACCOUNTS_TABLE")
		if err != nil {
			t.Fatalf("ConfigFromEnv failed: %v", err)
		}
		if cfg.TableName != "accounts" {
			t.Errorf("Expected table from .env, got %q", cfg.TableName)
		}
	})
}

func TestNewDaoFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	ctx := context.Background()

	t.Run("MissingTable", func(t *testing.T) {
		t.Setenv("INVOICES_TABLE", "")
		_, err := ddb.NewDaoFromEnv[testmodels.Invoice, testmodels.InvoiceKey](ctx, "INVOICES_TABLE")
		if !derrors.IsMissingConfiguration(err) {
			t.Fatalf("Expected missing configuration, got %v", err)
		}
	})

	t.Run("Configured", func(t *testing.T) {
		t.Setenv("INVOICES_TABLE", "invoices")
		t.Setenv(ddb.EnvRegion, "eu-central-1")
		t.Setenv("AWS_ACCESS_KEY_ID", "test")
		t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

		dao, err := ddb.NewDaoFromEnv[testmodels.Invoice, testmodels.InvoiceKey](ctx, "INVOICES_TABLE", quiet)
		if err != nil {
			t.Fatalf("NewDaoFromEnv failed: %v", err)
		}
		if dao.TableName() != "invoices" || dao.HashKeyName() != "id" {
			t.Errorf("Unexpected dao: table %q hash key %q", dao.TableName(), dao.HashKeyName())
		}
	})
}

func TestNewDynamoDBClient(t *testing.T) {
	client, err := ddb.NewDynamoDBClient(context.Background(), ddb.Config{
		Region:    "ap-southeast-2",
		Endpoint:  "http://localhost:8000",
		AccessKey: "key",
		SecretKey: "secret",
	})
	if err != nil {
		t.Fatalf("NewDynamoDBClient failed: %v", err)
	}

	opts := client.Options()
	if opts.Region != "ap-southeast-2" {
		t.Errorf("Expected region ap-southeast-2, got %q", opts.Region)
	}
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://localhost:8000" {
		t.Errorf("Expected custom endpoint, got %v", opts.BaseEndpoint)
	}
	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if creds.AccessKeyID != "key" {
		t.Errorf("Expected static credentials, got %q", creds.AccessKeyID)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
