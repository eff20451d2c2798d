package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dukerupert/choreboard/internal/model"
)

// Logical collection keys.
const (
	KeyDefinitions = "chore_definitions"
	KeyInstances   = "chore_instances"
	KeyOrders      = "kanban_orders"
)

// ChoreStore loads and saves the three engine collections as JSON blobs.
// A corrupt or missing blob degrades to an empty collection with a
// logged warning; it never fails startup.
type ChoreStore struct {
	kv     *KVStore
	logger *slog.Logger
}

func NewChoreStore(kv *KVStore, logger *slog.Logger) *ChoreStore {
	return &ChoreStore{kv: kv, logger: logger}
}

func (s *ChoreStore) LoadDefinitions() ([]model.ChoreDefinition, error) {
	blob, ok, err := s.kv.Get(KeyDefinitions)
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var defs []model.ChoreDefinition
	if err := json.Unmarshal(blob, &defs); err != nil {
		s.logger.Warn("corrupt definitions blob, falling back to empty", "error", err)
		return nil, nil
	}
	return defs, nil
}

func (s *ChoreStore) LoadInstances() ([]model.ChoreInstance, error) {
	blob, ok, err := s.kv.Get(KeyInstances)
	if err != nil {
		return nil, fmt.Errorf("load instances: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var instances []model.ChoreInstance
	if err := json.Unmarshal(blob, &instances); err != nil {
		s.logger.Warn("corrupt instances blob, falling back to empty", "error", err)
		return nil, nil
	}
	return instances, nil
}

func (s *ChoreStore) LoadOrders() (model.KanbanOrders, error) {
	blob, ok, err := s.kv.Get(KeyOrders)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	if !ok {
		return model.KanbanOrders{}, nil
	}
	var orders model.KanbanOrders
	if err := json.Unmarshal(blob, &orders); err != nil {
		s.logger.Warn("corrupt kanban orders blob, falling back to empty", "error", err)
		return model.KanbanOrders{}, nil
	}
	if orders == nil {
		orders = model.KanbanOrders{}
	}
	return orders, nil
}

func (s *ChoreStore) SaveDefinitions(defs []model.ChoreDefinition) error {
	blob, err := json.Marshal(defs)
	if err != nil {
		return fmt.Errorf("marshal definitions: %w", err)
	}
	return s.kv.Set(KeyDefinitions, blob)
}

func (s *ChoreStore) SaveInstances(instances []model.ChoreInstance) error {
	blob, err := json.Marshal(instances)
	if err != nil {
		return fmt.Errorf("marshal instances: %w", err)
	}
	return s.kv.Set(KeyInstances, blob)
}

func (s *ChoreStore) SaveOrders(orders model.KanbanOrders) error {
	blob, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}
	return s.kv.Set(KeyOrders, blob)
}

// SaveDefinitionsAndInstances persists both collections in one
// transaction. Scoped edits mutate both and must not partially persist.
func (s *ChoreStore) SaveDefinitionsAndInstances(defs []model.ChoreDefinition, instances []model.ChoreInstance) error {
	defBlob, err := json.Marshal(defs)
	if err != nil {
		return fmt.Errorf("marshal definitions: %w", err)
	}
	instBlob, err := json.Marshal(instances)
	if err != nil {
		return fmt.Errorf("marshal instances: %w", err)
	}
	return s.kv.SetMany(map[string][]byte{
		KeyDefinitions: defBlob,
		KeyInstances:   instBlob,
	})
}
