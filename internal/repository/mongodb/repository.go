package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
)

const (
	inventoryCollection   = "inventory"
	supplierCollection    = "suppliers"
	goalCollection        = "goals"
	transactionCollection = "transactions"
	decisionCollection    = "agent_decisions"
	learningCollection    = "learning_history"
	reportCollection      = "weekly_reports"

	stagingSuffix = "_import"
)

// MongoDBRepository implements repository.Store on top of MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

var _ repository.Store = (*MongoDBRepository)(nil)

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) coll(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

func findAll[T any](ctx context.Context, coll *mongo.Collection) ([]T, error) {
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, id string) (T, error) {
	var out T
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, repository.ErrNotFound
	}
	if err != nil {
		return out, fmt.Errorf("failed to load %s/%s: %w", coll.Name(), id, err)
	}
	return out, nil
}

func upsert(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", coll.Name(), id, err)
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// replaceAll swaps the collection's contents for rows. Rows are written to a
// staging collection first and renamed over the target, so a failed insert
// leaves the current data in place.
func replaceAll[T any](ctx context.Context, coll *mongo.Collection, rows []T) error {
	if len(rows) == 0 {
		if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("failed to clear %s: %w", coll.Name(), err)
		}
		return nil
	}

	db := coll.Database()
	staging := db.Collection(coll.Name() + stagingSuffix)
	if err := staging.Drop(ctx); err != nil {
		return fmt.Errorf("failed to reset %s: %w", staging.Name(), err)
	}

	docs := make([]any, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	if _, err := staging.InsertMany(ctx, docs); err != nil {
		_ = staging.Drop(ctx)
		return fmt.Errorf("failed to insert %s: %w", coll.Name(), err)
	}

	rename := bson.D{
		{Key: "renameCollection", Value: db.Name() + "." + staging.Name()},
		{Key: "to", Value: db.Name() + "." + coll.Name()},
		{Key: "dropTarget", Value: true},
	}
	if err := db.Client().Database("admin").RunCommand(ctx, rename).Err(); err != nil {
		_ = staging.Drop(ctx)
		return fmt.Errorf("failed to swap in %s: %w", coll.Name(), err)
	}
	return nil
}

// ListInventory returns every inventory item.
func (r *MongoDBRepository) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	return findAll[models.InventoryItem](ctx, r.coll(inventoryCollection))
}

// GetInventoryItem loads one inventory item.
func (r *MongoDBRepository) GetInventoryItem(ctx context.Context, id string) (models.InventoryItem, error) {
	return findOne[models.InventoryItem](ctx, r.coll(inventoryCollection), id)
}

// SaveInventoryItem inserts or replaces an inventory item.
func (r *MongoDBRepository) SaveInventoryItem(ctx context.Context, item models.InventoryItem) error {
	return upsert(ctx, r.coll(inventoryCollection), item.ID, item)
}

// DeleteInventoryItem removes an inventory item.
func (r *MongoDBRepository) DeleteInventoryItem(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(inventoryCollection), id)
}

// ReplaceInventory swaps the whole inventory collection.
func (r *MongoDBRepository) ReplaceInventory(ctx context.Context, items []models.InventoryItem) error {
	return replaceAll(ctx, r.coll(inventoryCollection), items)
}

func (r *MongoDBRepository) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return findAll[models.Supplier](ctx, r.coll(supplierCollection))
}

func (r *MongoDBRepository) GetSupplier(ctx context.Context, id string) (models.Supplier, error) {
	return findOne[models.Supplier](ctx, r.coll(supplierCollection), id)
}

func (r *MongoDBRepository) SaveSupplier(ctx context.Context, supplier models.Supplier) error {
	return upsert(ctx, r.coll(supplierCollection), supplier.ID, supplier)
}

func (r *MongoDBRepository) DeleteSupplier(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(supplierCollection), id)
}

func (r *MongoDBRepository) ReplaceSuppliers(ctx context.Context, suppliers []models.Supplier) error {
	return replaceAll(ctx, r.coll(supplierCollection), suppliers)
}

func (r *MongoDBRepository) ListGoals(ctx context.Context) ([]models.Goal, error) {
	return findAll[models.Goal](ctx, r.coll(goalCollection))
}

func (r *MongoDBRepository) GetGoal(ctx context.Context, id string) (models.Goal, error) {
	return findOne[models.Goal](ctx, r.coll(goalCollection), id)
}

func (r *MongoDBRepository) SaveGoal(ctx context.Context, goal models.Goal) error {
	return upsert(ctx, r.coll(goalCollection), goal.ID, goal)
}

func (r *MongoDBRepository) DeleteGoal(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(goalCollection), id)
}

func (r *MongoDBRepository) ReplaceGoals(ctx context.Context, goals []models.Goal) error {
	return replaceAll(ctx, r.coll(goalCollection), goals)
}

func (r *MongoDBRepository) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return findAll[models.Transaction](ctx, r.coll(transactionCollection))
}

func (r *MongoDBRepository) SaveTransaction(ctx context.Context, tx models.Transaction) error {
	return upsert(ctx, r.coll(transactionCollection), tx.ID, tx)
}

func (r *MongoDBRepository) DeleteTransaction(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll(transactionCollection), id)
}

func (r *MongoDBRepository) ReplaceTransactions(ctx context.Context, txs []models.Transaction) error {
	return replaceAll(ctx, r.coll(transactionCollection), txs)
}

// SaveDecision records a new agent decision.
func (r *MongoDBRepository) SaveDecision(ctx context.Context, decision models.AgentDecision) error {
	return upsert(ctx, r.coll(decisionCollection), decision.ID, decision)
}

func (r *MongoDBRepository) GetDecision(ctx context.Context, id string) (models.AgentDecision, error) {
	return findOne[models.AgentDecision](ctx, r.coll(decisionCollection), id)
}

// ListDecisions returns decisions oldest first.
func (r *MongoDBRepository) ListDecisions(ctx context.Context) ([]models.AgentDecision, error) {
	coll := r.coll(decisionCollection)
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	out := []models.AgentDecision{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

// UpdateDecisionOutcome moves a decision to a new outcome status.
func (r *MongoDBRepository) UpdateDecisionOutcome(ctx context.Context, id string, outcome models.OutcomeStatus, executedAt *time.Time) error {
	set := bson.M{"outcome": outcome}
	if executedAt != nil {
		set["executed_at"] = *executedAt
	}
	res, err := r.coll(decisionCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update decision %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AppendLearning inserts a learning record. Existing records are never updated.
func (r *MongoDBRepository) AppendLearning(ctx context.Context, record models.LearningRecord) error {
	if _, err := r.coll(learningCollection).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert learning record: %w", err)
	}
	return nil
}

// ListLearning returns the outcome history oldest first.
func (r *MongoDBRepository) ListLearning(ctx context.Context) ([]models.LearningRecord, error) {
	coll := r.coll(learningCollection)
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	out := []models.LearningRecord{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

// SaveWeeklyReport saves a weekly report to the database.
func (r *MongoDBRepository) SaveWeeklyReport(ctx context.Context, report models.WeeklyReport) error {
	_, err := r.coll(reportCollection).InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert weekly report: %w", err)
	}
	return nil
}
