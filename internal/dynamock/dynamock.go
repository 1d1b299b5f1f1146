// Package dynamock provides an in-memory stand-in for the DynamoDB client
// used by the store. It implements conditional writes and all-or-nothing
// transactions faithfully enough to exercise the consistency core, and can
// inject failures to prove that a failed transaction applies nothing.
//
// Only the request shapes the store actually sends are supported; anything
// else fails loudly so a drifting store surfaces in tests immediately.
package dynamock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DB is an in-memory DynamoDB double.
type DB struct {
	mu     sync.Mutex
	tables map[string]*table

	// transactErr, when set, fails the next TransactWriteItems call before
	// anything is applied, mirroring DynamoDB's all-or-nothing contract.
	transactErr error

	// opErr fails the next call of the named operation ("PutItem", "Query", ...).
	opErr map[string]error
}

type table struct {
	keyAttrs []string
	items    map[string]map[string]types.AttributeValue
}

// New creates an empty DB with no tables.
func New() *DB {
	return &DB{
		tables: make(map[string]*table),
		opErr:  make(map[string]error),
	}
}

// AddTable registers a table with the given key attributes, in key order.
func (db *DB) AddTable(name string, keyAttrs ...string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tables[name] = &table{
		keyAttrs: keyAttrs,
		items:    make(map[string]map[string]types.AttributeValue),
	}
}

// FailNextTransact makes the next TransactWriteItems call return err without
// applying any of its items.
func (db *DB) FailNextTransact(err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.transactErr = err
}

// FailNext makes the next call of the named operation return err.
func (db *DB) FailNext(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.opErr[op] = err
}

// FailNextOn is FailNext scoped to a single table.
func (db *DB) FailNextOn(op, tableName string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.opErr[op+"/"+tableName] = err
}

// ItemCount returns the number of items currently stored in a table.
func (db *DB) ItemCount(tableName string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	t, ok := db.tables[tableName]
	if !ok {
		return 0
	}
	return len(t.items)
}

// HasItem reports whether a table contains an item with the given key.
func (db *DB) HasItem(tableName string, key map[string]types.AttributeValue) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	t, ok := db.tables[tableName]
	if !ok {
		return false
	}
	_, ok = t.items[t.keyString(key)]
	return ok
}

func (db *DB) takeOpErr(op string, tableName *string) error {
	if tableName != nil {
		scoped := op + "/" + *tableName
		if err, ok := db.opErr[scoped]; ok {
			delete(db.opErr, scoped)
			return err
		}
	}
	if err, ok := db.opErr[op]; ok {
		delete(db.opErr, op)
		return err
	}
	return nil
}

func (db *DB) table(name *string) (*table, error) {
	if name == nil {
		return nil, fmt.Errorf("dynamock: missing table name")
	}
	t, ok := db.tables[*name]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("table not found: " + *name)}
	}
	return t, nil
}

// keyString derives the storage key from an item or key map using the
// table's key attributes.
func (t *table) keyString(attrs map[string]types.AttributeValue) string {
	parts := make([]string, 0, len(t.keyAttrs))
	for _, attr := range t.keyAttrs {
		parts = append(parts, scalarValue(attrs[attr]))
	}
	return strings.Join(parts, "\x1f")
}

func scalarValue(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	default:
		return ""
	}
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	dup := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		dup[k] = v
	}
	return dup
}

// GetItem implements store.DynamoDBAPI.
func (db *DB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.takeOpErr("GetItem", params.TableName); err != nil {
		return nil, err
	}

	t, err := db.table(params.TableName)
	if err != nil {
		return nil, err
	}

	item, ok := t.items[t.keyString(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

// PutItem implements store.DynamoDBAPI.
func (db *DB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.takeOpErr("PutItem", params.TableName); err != nil {
		return nil, err
	}

	t, err := db.table(params.TableName)
	if err != nil {
		return nil, err
	}

	t.items[t.keyString(params.Item)] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// DeleteItem implements store.DynamoDBAPI.
func (db *DB) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.takeOpErr("DeleteItem", params.TableName); err != nil {
		return nil, err
	}

	t, err := db.table(params.TableName)
	if err != nil {
		return nil, err
	}

	delete(t.items, t.keyString(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

// UpdateItem implements store.DynamoDBAPI. Supports SET expressions of the
// form "SET #a = :x, b = :y" plus an attribute_exists condition on the key.
func (db *DB) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.takeOpErr("UpdateItem", params.TableName); err != nil {
		return nil, err
	}

	t, err := db.table(params.TableName)
	if err != nil {
		return nil, err
	}

	key := t.keyString(params.Key)
	item, exists := t.items[key]

	if params.ConditionExpression != nil {
		if !conditionHolds(*params.ConditionExpression, exists) {
			return nil, &types.ConditionalCheckFailedException{
				Message: aws.String("The conditional request failed"),
			}
		}
	}
	if !exists {
		// Unconditional update on a missing item creates it from the key.
		item = copyItem(params.Key)
		t.items[key] = item
	}

	if params.UpdateExpression != nil {
		if err := applySet(item, *params.UpdateExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues); err != nil {
			return nil, err
		}
	}

	out := &dynamodb.UpdateItemOutput{}
	if params.ReturnValues == types.ReturnValueAllNew {
		out.Attributes = copyItem(item)
	}
	return out, nil
}

// Query implements store.DynamoDBAPI. Supports a single "attr = :val" key
// condition, against the base table key or any attribute when an index name
// is given.
func (db *DB) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.takeOpErr("Query", params.TableName); err != nil {
		return nil, err
	}

	t, err := db.table(params.TableName)
	if err != nil {
		return nil, err
	}

	attr, placeholder, err := parseEquality(aws.ToString(params.KeyConditionExpression), params.ExpressionAttributeNames)
	if err != nil {
		return nil, err
	}
	want, ok := params.ExpressionAttributeValues[placeholder]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("missing value " + placeholder)}
	}

	out := &dynamodb.QueryOutput{}
	for _, item := range t.items {
		if scalarValue(item[attr]) == scalarValue(want) {
			out.Items = append(out.Items, copyItem(item))
		}
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

// Scan implements store.DynamoDBAPI.
func (db *DB) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.takeOpErr("Scan", params.TableName); err != nil {
		return nil, err
	}

	t, err := db.table(params.TableName)
	if err != nil {
		return nil, err
	}

	out := &dynamodb.ScanOutput{}
	for _, item := range t.items {
		out.Items = append(out.Items, copyItem(item))
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

// TransactWriteItems implements store.DynamoDBAPI. All condition checks are
// evaluated first; if any fails, or a failure was injected, nothing is
// applied and a TransactionCanceledException carries one cancellation reason
// per item, as the real service does.
func (db *DB) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.transactErr != nil {
		err := db.transactErr
		db.transactErr = nil
		return nil, err
	}

	// Phase 1: evaluate every condition without mutating anything.
	reasons := make([]types.CancellationReason, len(params.TransactItems))
	failed := false
	for i, item := range params.TransactItems {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}

		var tableName *string
		var key map[string]types.AttributeValue
		var cond *string
		switch {
		case item.Delete != nil:
			tableName, key, cond = item.Delete.TableName, item.Delete.Key, item.Delete.ConditionExpression
		case item.Put != nil:
			tableName, key, cond = item.Put.TableName, item.Put.Item, item.Put.ConditionExpression
		default:
			return nil, fmt.Errorf("dynamock: unsupported transact item %d", i)
		}

		t, err := db.table(tableName)
		if err != nil {
			return nil, err
		}
		if cond != nil {
			_, exists := t.items[t.keyString(key)]
			if !conditionHolds(*cond, exists) {
				reasons[i] = types.CancellationReason{
					Code:    aws.String("ConditionalCheckFailed"),
					Message: aws.String("The conditional request failed"),
				}
				failed = true
			}
		}
	}

	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled, please refer cancellation reasons for specific reasons"),
			CancellationReasons: reasons,
		}
	}

	// Phase 2: apply everything.
	for _, item := range params.TransactItems {
		switch {
		case item.Delete != nil:
			t, _ := db.table(item.Delete.TableName)
			delete(t.items, t.keyString(item.Delete.Key))
		case item.Put != nil:
			t, _ := db.table(item.Put.TableName)
			t.items[t.keyString(item.Put.Item)] = copyItem(item.Put.Item)
		}
	}

	return &dynamodb.TransactWriteItemsOutput{}, nil
}

// conditionHolds evaluates the two condition shapes the store uses.
func conditionHolds(expr string, exists bool) bool {
	switch {
	case strings.HasPrefix(expr, "attribute_exists("):
		return exists
	case strings.HasPrefix(expr, "attribute_not_exists("):
		return !exists
	default:
		return false
	}
}

// parseEquality parses "attr = :placeholder", resolving #name aliases.
func parseEquality(expr string, names map[string]string) (attr, placeholder string, err error) {
	parts := strings.SplitN(expr, "=", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("dynamock: unsupported key condition %q", expr)
	}
	attr = strings.TrimSpace(parts[0])
	placeholder = strings.TrimSpace(parts[1])
	if resolved, ok := names[attr]; ok {
		attr = resolved
	}
	if !strings.HasPrefix(placeholder, ":") {
		return "", "", fmt.Errorf("dynamock: unsupported key condition %q", expr)
	}
	return attr, placeholder, nil
}

// applySet applies a "SET a = :x, b = :y" update expression to item.
func applySet(item map[string]types.AttributeValue, expr string, names map[string]string, values map[string]types.AttributeValue) error {
	rest, ok := strings.CutPrefix(expr, "SET ")
	if !ok {
		return fmt.Errorf("dynamock: unsupported update expression %q", expr)
	}
	for _, clause := range strings.Split(rest, ",") {
		attr, placeholder, err := parseEquality(strings.TrimSpace(clause), names)
		if err != nil {
			return err
		}
		value, ok := values[placeholder]
		if !ok {
			return fmt.Errorf("dynamock: missing value %s", placeholder)
		}
		item[attr] = value
	}
	return nil
}
