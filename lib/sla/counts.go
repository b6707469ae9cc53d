// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package sla

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Category is one named count inside a bucket.
type Category struct {
	Name  string
	Count int64
}

// Counts is a bucket's categories in the order the endpoint sent them.
type Counts []Category

// Get returns the count for name.
func (c Counts) Get(name string) (int64, bool) {
	for _, category := range c {
		if category.Name == name {
			return category.Count, true
		}
	}
	return 0, false
}

// UnmarshalJSON decodes {"name": count, ...} keeping key order. Counts
// may be JSON numbers or numeric strings; null counts as zero.
func (c *Counts) UnmarshalJSON(data []byte) error {
	var result Counts
	err := walkObject(data, func(key string, value json.RawMessage) error {
		count, err := ParseCount(value)
		if err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}
		result = append(result, Category{Name: key, Count: count})
		return nil
	})
	if err != nil {
		return err
	}
	*c = result
	return nil
}

// Entry is one bucket of a Dataset.
type Entry struct {
	Key  string
	Data Counts
}

// Dataset is the delayed mapping bucket key -> {data: counts}, in
// source order.
type Dataset []Entry

// Lookup returns the counts for a bucket key.
func (d Dataset) Lookup(key string) (Counts, bool) {
	for _, entry := range d {
		if entry.Key == key {
			return entry.Data, true
		}
	}
	return nil, false
}

// Keys returns the bucket keys in source order.
func (d Dataset) Keys() []string {
	keys := make([]string, len(d))
	for i, entry := range d {
		keys[i] = entry.Key
	}
	return keys
}

// UnmarshalJSON decodes {"sla_1": {"data": {...}}, ...} keeping key
// order. Bucket values without a data member decode as empty counts.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var result Dataset
	err := walkObject(data, func(key string, value json.RawMessage) error {
		var bucket struct {
			Data Counts `json:"data"`
		}
		if err := json.Unmarshal(value, &bucket); err != nil {
			return fmt.Errorf("bucket %q: %w", key, err)
		}
		result = append(result, Entry{Key: key, Data: bucket.Data})
		return nil
	})
	if err != nil {
		return err
	}
	*d = result
	return nil
}

// ParseCount accepts a JSON number, a JSON string holding an integer,
// or null. Fractional values are rejected.
func ParseCount(value json.RawMessage) (int64, error) {
	text := strings.TrimSpace(string(value))
	if text == "" || text == "null" {
		return 0, nil
	}
	if strings.HasPrefix(text, `"`) {
		var unquoted string
		if err := json.Unmarshal(value, &unquoted); err != nil {
			return 0, err
		}
		text = strings.TrimSpace(unquoted)
	}
	count, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer count: %s", value)
	}
	return count, nil
}

// walkObject calls visit for every member of a JSON object in order.
// A JSON null is treated as an empty object.
func walkObject(data []byte, visit func(key string, value json.RawMessage) error) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if token == nil {
		return nil
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", token)
	}

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return err
		}
		key, ok := token.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", token)
		}
		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}
		if err := visit(key, value); err != nil {
			return err
		}
	}

	if _, err := decoder.Token(); err != nil {
		return err
	}
	return nil
}
