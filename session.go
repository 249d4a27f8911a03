/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamoentity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/suparena/dynamoentity/datastore/ddb"
)

// Session shares one DynamoDB client between the Daos of an application.
// Daos opened through a session are kept in its Stores, one per entity
// type and table.
type Session struct {
	client ddb.Client
	logger *slog.Logger
	config ddb.Config
	stores *MultiTypeStorage
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger handed to every Dao of the session.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithConfig records the configuration the session was built from. Its
// TableName is the default table of OpenDao.
func WithConfig(cfg ddb.Config) SessionOption {
	return func(s *Session) {
		s.config = cfg
	}
}

// NewSession creates a session around an existing client.
func NewSession(client ddb.Client, opts ...SessionOption) (*Session, error) {
	if client == nil {
		return nil, errors.New("dynamoentity: client is required")
	}
	s := &Session{
		client: client,
		logger: slog.Default(),
		stores: NewMultiTypeStorage(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewSessionFromConfig builds the client from cfg and wraps it in a session.
func NewSessionFromConfig(ctx context.Context, cfg ddb.Config, opts ...SessionOption) (*Session, error) {
	client, err := ddb.NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewSession(client, append([]SessionOption{WithConfig(cfg)}, opts...)...)
}

// NewSessionFromEnv is NewSessionFromConfig with the configuration read by
// ddb.ConfigFromEnv.
func NewSessionFromEnv(ctx context.Context, tableVar string, opts ...SessionOption) (*Session, error) {
	cfg, err := ddb.ConfigFromEnv(tableVar)
	if err != nil {
		return nil, err
	}
	return NewSessionFromConfig(ctx, cfg, opts...)
}

// Client returns the shared client.
func (s *Session) Client() ddb.Client {
	return s.client
}

// Config returns the configuration recorded with WithConfig.
func (s *Session) Config() ddb.Config {
	return s.config
}

// Stores returns the Daos opened so far.
func (s *Session) Stores() *MultiTypeStorage {
	return s.stores
}

// OpenDao returns the Dao of T stored in table, creating it on first use.
// An empty table selects the table of the session configuration.
func OpenDao[T any, K any](s *Session, table string, opts ...ddb.Option) (*ddb.Dao[T, K], error) {
	if table == "" {
		table = s.config.TableName
	}

	storage := GetTypedStorage[T, K](s.stores)
	if ds, err := storage.Get(table); err == nil {
		if dao, ok := ds.(*ddb.Dao[T, K]); ok {
			return dao, nil
		}
	}

	dao, err := ddb.NewDao[T, K](s.client, table, append([]ddb.Option{ddb.WithLogger(s.logger)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := storage.Register(table, dao); err != nil {
		// a concurrent OpenDao registered the table first
		if ds, getErr := storage.Get(table); getErr == nil {
			if existing, ok := ds.(*ddb.Dao[T, K]); ok {
				return existing, nil
			}
		}
		return nil, err
	}

	s.logger.Debug("opened dao", slog.String("table", table), slog.String("type", typeName[T]()))
	return dao, nil
}
