package monitor

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/treinwacht/treinwacht/pkg/nsapi"
)

const (
	// ToggleKey switches notification delivery on and off; the control
	// API flips it, the watcher honours it
	ToggleKey = "treinwacht:notifications"

	DelaySnapshotKey      = "treinwacht:delays"
	DisruptionSnapshotKey = "treinwacht:disruptions"
)

// StateStore remembers which delays and disruptions have already been
// notified, and whether delivery is currently enabled, in a shared
// key-value store.
type StateStore struct {
	Client *redis.Client
}

func (s *StateStore) NotificationsEnabled(ctx context.Context) bool {
	value, err := s.Client.Get(ctx, ToggleKey).Result()
	if err == redis.Nil {
		// Never toggled, delivery defaults to on
		return true
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to read notification toggle")
		return false
	}

	return value != "false"
}

func (s *StateStore) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}

	return s.Client.Set(ctx, ToggleKey, value, 0).Err()
}

// Snapshot returns the previously stored record set under the given
// key. A missing or corrupt snapshot decodes to an empty set.
func (s *StateStore) Snapshot(ctx context.Context, key string) []nsapi.Record {
	value, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return []nsapi.Record{}
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to read snapshot")
		return []nsapi.Record{}
	}

	var encoded []string
	if err := json.Unmarshal([]byte(value), &encoded); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to decode snapshot")
		return []nsapi.Record{}
	}

	return nsapi.DecodeRecordList(encoded)
}

func (s *StateStore) StoreSnapshot(ctx context.Context, key string, records []nsapi.Record) error {
	encoded, err := nsapi.EncodeRecordList(records)
	if err != nil {
		return err
	}

	value, err := json.Marshal(encoded)
	if err != nil {
		return err
	}

	return s.Client.Set(ctx, key, string(value), 0).Err()
}
