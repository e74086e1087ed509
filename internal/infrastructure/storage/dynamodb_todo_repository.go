package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/todoapp/backend/internal/domain/todo"
)

const (
	// counterID 计数器条目的主键，业务 ID 从 1 开始
	counterID   = 0
	attrID      = "id"
	attrTitle   = "title"
	attrDesc    = "description"
	attrCounter = "seq"
)

// dynamodbAPI 仓储所需的最小 DynamoDB 接口，便于测试替换
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// dynamoTodoRepository 待办事项 DynamoDB 仓储实现
// 表以数值类型 id 为分区键，id=0 的条目保存自增计数器
type dynamoTodoRepository struct {
	api       dynamodbAPI
	tableName string
}

// NewDynamoDBTodoRepository 创建 DynamoDB 待办仓储
func NewDynamoDBTodoRepository(api dynamodbAPI, tableName string) (todo.Repository, error) {
	if api == nil {
		return nil, errors.New("storage: dynamodb api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("storage: dynamodb table name must not be empty")
	}
	return &dynamoTodoRepository{api: api, tableName: tableName}, nil
}

func idKey(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID: &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}

// FindAll 扫描全表并按 ID 升序返回
func (r *dynamoTodoRepository) FindAll(ctx context.Context) ([]*todo.TodoItem, error) {
	items := make([]*todo.TodoItem, 0)

	var startKey map[string]types.AttributeValue
	for {
		out, err := r.api.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan todos: %w", err)
		}

		for _, av := range out.Items {
			item, err := itemToTodo(av)
			if err != nil {
				return nil, err
			}
			if item.ID == counterID {
				continue
			}
			items = append(items, item)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// FindByID 根据 ID 查找待办事项
func (r *dynamoTodoRepository) FindByID(ctx context.Context, id int64) (*todo.TodoItem, error) {
	if id == counterID {
		return nil, todo.ErrNotFound
	}

	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, todo.ErrNotFound
	}

	return itemToTodo(out.Item)
}

// Create 通过原子计数器分配 ID 后写入
func (r *dynamoTodoRepository) Create(ctx context.Context, item *todo.TodoItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	candidate := item.Clone()
	candidate.ID = id
	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                todoToItem(candidate),
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": attrID,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put todo: %w", err)
	}

	item.ID = id
	return nil
}

// Update 条件写入，记录不存在时返回 ErrNotFound
func (r *dynamoTodoRepository) Update(ctx context.Context, item *todo.TodoItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if item.ID == counterID {
		return todo.ErrNotFound
	}

	_, err := r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                todoToItem(item),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": attrID,
		},
	})
	if err != nil {
		return translateConditionError(err, "failed to update todo")
	}
	return nil
}

// Delete 条件删除，记录不存在时返回 ErrNotFound
func (r *dynamoTodoRepository) Delete(ctx context.Context, id int64) error {
	if id == counterID {
		return todo.ErrNotFound
	}

	_, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 idKey(id),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": attrID,
		},
	})
	if err != nil {
		return translateConditionError(err, "failed to delete todo")
	}
	return nil
}

// nextID 原子递增计数器
func (r *dynamoTodoRepository) nextID(ctx context.Context) (int64, error) {
	out, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              idKey(counterID),
		UpdateExpression: aws.String("ADD #seq :one"),
		ExpressionAttributeNames: map[string]string{
			"#seq": attrCounter,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to allocate todo id: %w", err)
	}

	seq, ok := out.Attributes[attrCounter].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("failed to allocate todo id: counter attribute missing")
	}
	id, err := strconv.ParseInt(seq.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse todo id counter: %w", err)
	}
	return id, nil
}

func todoToItem(t *todo.TodoItem) map[string]types.AttributeValue {
	av := map[string]types.AttributeValue{
		attrID:    &types.AttributeValueMemberN{Value: strconv.FormatInt(t.ID, 10)},
		attrTitle: &types.AttributeValueMemberS{Value: t.Title},
	}
	if t.Description != nil {
		av[attrDesc] = &types.AttributeValueMemberS{Value: *t.Description}
	}
	return av
}

func itemToTodo(av map[string]types.AttributeValue) (*todo.TodoItem, error) {
	idAttr, ok := av[attrID].(*types.AttributeValueMemberN)
	if !ok {
		return nil, errors.New("failed to decode todo: missing id")
	}
	id, err := strconv.ParseInt(idAttr.Value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode todo id: %w", err)
	}

	item := &todo.TodoItem{ID: id}
	if title, ok := av[attrTitle].(*types.AttributeValueMemberS); ok {
		item.Title = title.Value
	}
	if desc, ok := av[attrDesc].(*types.AttributeValueMemberS); ok {
		d := desc.Value
		item.Description = &d
	}
	return item, nil
}

// translateConditionError 条件检查失败视为记录不存在
func translateConditionError(err error, msg string) error {
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return todo.ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// 编译时检查接口实现
var _ todo.Repository = (*dynamoTodoRepository)(nil)
