package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/wire"

	"github.com/todoapp/backend/internal/domain/todo"
	"github.com/todoapp/backend/internal/infrastructure/config"
	"github.com/todoapp/backend/internal/infrastructure/log"
)

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideTodoRepository, // 按配置选择待办仓储实现
)

// ProvideTodoRepository 根据数据库驱动创建待办仓储
// 返回的 cleanup 负责释放底层连接
func ProvideTodoRepository(cfg *config.DatabaseConfig) (todo.Repository, func(), error) {
	logger := log.NewModuleLogger("storage", "provider")

	switch cfg.Driver {
	case config.DriverDynamoDB:
		client, err := newDynamoDBClient(context.Background(), cfg.DynamoDB)
		if err != nil {
			return nil, nil, err
		}
		repo, err := NewDynamoDBTodoRepository(client, cfg.DynamoDB.Table)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using DynamoDB todo store", "table", cfg.DynamoDB.Table)
		return repo, func() {}, nil

	case config.DriverSQLite, "":
		path := cfg.SQLitePath()
		db, err := OpenDB(path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using SQLite todo store", "path", path)
		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", "error", err)
			}
		}
		return NewSQLiteTodoRepository(db), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// newDynamoDBClient 加载 AWS 默认凭证链并创建客户端
func newDynamoDBClient(ctx context.Context, cfg config.DynamoDBConfig) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
