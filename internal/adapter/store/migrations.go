package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"apidoc/config"
)

// CurrentSchemaVersion is the storage format written by this build.
const CurrentSchemaVersion = 2

var keySchema = []byte("schema")

// migrations[v] upgrades a v store to v+1 inside the caller's transaction.
// Version 0 is an unversioned store; its buckets already exist.
var migrations = []func(tx *bbolt.Tx) error{
	0: func(*bbolt.Tx) error { return nil },
	1: func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	},
}

// SchemaInfo is the version and extraction config hash a store was last
// written with.
type SchemaInfo struct {
	Version    int    `json:"version"`
	ConfigHash string `json:"config_hash"`
}

func readSchema(tx *bbolt.Tx) (SchemaInfo, error) {
	var info SchemaInfo
	data := tx.Bucket(bucketStats).Get(keySchema)
	if data == nil {
		return info, nil
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("corrupt schema info: %w", err)
	}
	return info, nil
}

// SchemaInfo returns what the store was last migrated to. A store that was
// never migrated reports version 0.
func (s *BoltStore) SchemaInfo() (SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		info, err = readSchema(tx)
		return err
	})
	return info, err
}

// ComputeConfigHash hashes the configuration that decides what gets
// extracted. A different hash means stored comments may be stale.
func ComputeConfigHash(cfg *config.Config) string {
	data, _ := json.Marshal(struct {
		Includes []string `json:"includes"`
		Excludes []string `json:"excludes"`
		MaxBytes int64    `json:"max_bytes"`
	}{cfg.Extract.Includes, cfg.Extract.Excludes, cfg.Extract.MaxBytes})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// MigrationResult tells the caller what must happen before extracting.
type MigrationResult struct {
	NeedsMigration bool
	NeedsRebuild   bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// CheckMigration compares the stored schema with this build and cfg.
func (s *BoltStore) CheckMigration(cfg *config.Config) (*MigrationResult, error) {
	info, err := s.SchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{OldVersion: info.Version, NewVersion: CurrentSchemaVersion}
	switch {
	case info.Version > CurrentSchemaVersion:
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("store written by a newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
	case info.ConfigHash != "" && info.ConfigHash != ComputeConfigHash(cfg):
		result.NeedsRebuild = true
		result.Reason = "extraction configuration changed"
	case info.Version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case info.Version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", info.Version, CurrentSchemaVersion)
	}
	return result, nil
}

// Migrate upgrades the store to CurrentSchemaVersion and records the config
// hash of cfg, all in one transaction.
func (s *BoltStore) Migrate(cfg *config.Config) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		info, err := readSchema(tx)
		if err != nil {
			return err
		}
		for v := info.Version; v < CurrentSchemaVersion; v++ {
			if err := migrations[v](tx); err != nil {
				return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
			}
		}

		data, err := json.Marshal(SchemaInfo{
			Version:    CurrentSchemaVersion,
			ConfigHash: ComputeConfigHash(cfg),
		})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketStats).Put(keySchema, data)
	})
}

// NeedsRebuild reports whether stored comments must be discarded.
func (s *BoltStore) NeedsRebuild(cfg *config.Config) (bool, string, error) {
	result, err := s.CheckMigration(cfg)
	if err != nil {
		return false, "", err
	}
	return result.NeedsRebuild, result.Reason, nil
}

// Clear drops every document, comment and posting. Schema info and run
// history survive.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketDocs, bucketComments, bucketDocComments, bucketTerms} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketStats).Delete(keyStats)
	})
}
