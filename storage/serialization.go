// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"slices"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/shopsearch/core"
)

// historyFormatVersion prefixes every serialized history list.
const historyFormatVersion = 1

// HistoryItemMUS serializes a single core.HistoryItem.
var HistoryItemMUS = historyItemMUS{}

type historyItemMUS struct{}

func (historyItemMUS) Size(v core.HistoryItem) (size int) {
	size += ord.String.Size(v.Id)
	size += ord.String.Size(string(v.Type))
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Href)
	size += varint.Int.Size(v.Score)
	size += varint.Int.Size(len(v.Metadata))
	for _, k := range sortedKeys(v.Metadata) {
		size += ord.String.Size(k)
		size += ord.String.Size(v.Metadata[k])
	}
	size += varint.Int64.Size(v.SearchedAt.UnixNano())
	size += varint.Int.Size(v.ClickCount)
	return size
}

func (historyItemMUS) Marshal(v core.HistoryItem, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(string(v.Type), bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Href, bs[n:])
	n += varint.Int.Marshal(v.Score, bs[n:])
	n += varint.Int.Marshal(len(v.Metadata), bs[n:])
	for _, k := range sortedKeys(v.Metadata) {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(v.Metadata[k], bs[n:])
	}
	n += varint.Int64.Marshal(v.SearchedAt.UnixNano(), bs[n:])
	n += varint.Int.Marshal(v.ClickCount, bs[n:])
	return n
}

func (historyItemMUS) Unmarshal(bs []byte) (v core.HistoryItem, n int, err error) {
	var n1 int
	v.Id, n1, err = ord.String.Unmarshal(bs)
	n += n1
	if err != nil {
		return
	}
	var typ string
	typ, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Type = core.ResultType(typ)
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Href, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Score, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count < 0 || count > len(bs)-n {
		err = ErrTruncatedData
		return
	}
	if count > 0 {
		v.Metadata = make(map[string]string, count)
	}
	for range count {
		var key, val string
		key, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		val, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v.Metadata[key] = val
	}
	var nanos int64
	nanos, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SearchedAt = time.Unix(0, nanos).UTC()
	v.ClickCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

// MarshalHistory serializes a history list to bytes.
func MarshalHistory(items []core.HistoryItem) []byte {
	size := varint.Int.Size(historyFormatVersion) + varint.Int.Size(len(items))
	for _, item := range items {
		size += HistoryItemMUS.Size(item)
	}

	buf := make([]byte, size)
	n := varint.Int.Marshal(historyFormatVersion, buf)
	n += varint.Int.Marshal(len(items), buf[n:])
	for _, item := range items {
		n += HistoryItemMUS.Marshal(item, buf[n:])
	}
	return buf
}

// UnmarshalHistory deserializes a history list from bytes.
func UnmarshalHistory(data []byte) ([]core.HistoryItem, error) {
	version, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if version != historyFormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	count, n1, err := varint.Int.Unmarshal(data[n:])
	n += n1
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if count < 0 || count > len(data)-n {
		return nil, fmt.Errorf("%w: %d items declared", ErrTruncatedData, count)
	}

	items := make([]core.HistoryItem, 0, count)
	for range count {
		item, n1, err := HistoryItemMUS.Unmarshal(data[n:])
		n += n1
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
