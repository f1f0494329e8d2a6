// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/toeirei/lssh/internal/model"
	"github.com/uptrace/bun"
)

// Store is the host index cache.
type Store interface {
	// ReplaceHosts swaps the whole index for hosts and the customer display
	// names and records stamp as the source modification time.
	ReplaceHosts(ctx context.Context, hosts []model.HostEntry, displayNames map[string]string, stamp time.Time) error
	// Hosts returns all cached hosts ordered by display name.
	Hosts(ctx context.Context) ([]model.HostEntry, error)
	// DisplayNames returns the customer display names.
	DisplayNames(ctx context.Context) (map[string]string, error)
	// Stamp returns the source modification time of the cached index, or the
	// zero time if nothing was cached yet.
	Stamp(ctx context.Context) (time.Time, error)
	Close() error
}

const stampKey = "source_stamp"

// HostModel maps the `hosts` table.
type HostModel struct {
	bun.BaseModel `bun:"table:hosts"`

	DisplayName string `bun:"display_name,pk"`
	Customer    string `bun:"customer,notnull"`
	Jumphost    string `bun:"jumphost,nullzero"`
}

// HostKeywordModel maps the `host_keywords` table.
type HostKeywordModel struct {
	bun.BaseModel `bun:"table:host_keywords"`

	DisplayName string `bun:"display_name,pk"`
	Keyword     string `bun:"keyword,pk"`
}

// CustomerModel maps the `customers` table.
type CustomerModel struct {
	bun.BaseModel `bun:"table:customers"`

	Name        string `bun:"name,pk"`
	DisplayName string `bun:"display_name,notnull"`
}

// MetaModel maps the `index_meta` table.
type MetaModel struct {
	bun.BaseModel `bun:"table:index_meta"`

	Name  string `bun:"name,pk"`
	Value string `bun:"value,notnull"`
}

// BunStore is the Bun implementation of Store.
type BunStore struct {
	bun    *bun.DB
	dbType string
}

// ReplaceHosts implements Store.
func (s *BunStore) ReplaceHosts(ctx context.Context, hosts []model.HostEntry, displayNames map[string]string, stamp time.Time) error {
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Bun refuses Delete queries without WHERE, so clear the tables raw.
	for _, table := range []string{"host_keywords", "hosts", "customers", "index_meta"} {
		if _, err := ExecRaw(ctx, tx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if len(hosts) > 0 {
		rows := make([]HostModel, 0, len(hosts))
		var kw []HostKeywordModel
		for _, h := range hosts {
			rows = append(rows, HostModel{DisplayName: h.DisplayName, Customer: h.Customer, Jumphost: h.Jumphost})
			for _, k := range h.Keywords {
				kw = append(kw, HostKeywordModel{DisplayName: h.DisplayName, Keyword: k})
			}
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert hosts: %w", MapDBError(err))
		}
		if len(kw) > 0 {
			if _, err := tx.NewInsert().Model(&kw).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert keywords: %w", MapDBError(err))
			}
		}
	}

	if len(displayNames) > 0 {
		customers := make([]CustomerModel, 0, len(displayNames))
		for name, display := range displayNames {
			customers = append(customers, CustomerModel{Name: name, DisplayName: display})
		}
		if _, err := tx.NewInsert().Model(&customers).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert display names: %w", MapDBError(err))
		}
	}

	meta := &MetaModel{Name: stampKey, Value: strconv.FormatInt(stamp.UnixNano(), 10)}
	if _, err := tx.NewInsert().Model(meta).Exec(ctx); err != nil {
		return fmt.Errorf("failed to record stamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	dbLogf("db: cached %d hosts (stamp %s)", len(hosts), stamp.Format(time.RFC3339))
	return nil
}

// Hosts implements Store.
func (s *BunStore) Hosts(ctx context.Context) ([]model.HostEntry, error) {
	var hm []HostModel
	if err := s.bun.NewSelect().Model(&hm).OrderExpr("display_name").Scan(ctx); err != nil {
		return nil, err
	}
	var km []HostKeywordModel
	if err := s.bun.NewSelect().Model(&km).OrderExpr("display_name, keyword").Scan(ctx); err != nil {
		return nil, err
	}
	keywords := make(map[string][]string, len(hm))
	for _, k := range km {
		keywords[k.DisplayName] = append(keywords[k.DisplayName], k.Keyword)
	}

	out := make([]model.HostEntry, 0, len(hm))
	for _, h := range hm {
		out = append(out, model.HostEntry{
			DisplayName: h.DisplayName,
			Customer:    h.Customer,
			Keywords:    keywords[h.DisplayName],
			Jumphost:    h.Jumphost,
		})
	}
	return out, nil
}

// DisplayNames implements Store.
func (s *BunStore) DisplayNames(ctx context.Context) (map[string]string, error) {
	var cm []CustomerModel
	if err := s.bun.NewSelect().Model(&cm).Scan(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(cm))
	for _, c := range cm {
		out[c.Name] = c.DisplayName
	}
	return out, nil
}

// Stamp implements Store.
func (s *BunStore) Stamp(ctx context.Context) (time.Time, error) {
	var m MetaModel
	err := s.bun.NewSelect().Model(&m).Where("name = ?", stampKey).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	n, err := strconv.ParseInt(m.Value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt stamp %q: %w", m.Value, err)
	}
	return time.Unix(0, n), nil
}

// Close implements Store.
func (s *BunStore) Close() error {
	return s.bun.Close()
}
