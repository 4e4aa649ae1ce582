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
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/commatch/core"
)

// Records are serialized in the MUS format. Field order is part of the
// format; times are stored as Unix microseconds.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalProfile serializes a Profile to bytes.
func MarshalProfile(profile *core.Profile) []byte {
	size := varint.Int64.Size(int64(profile.Id)) +
		ord.String.Size(profile.Username) +
		ord.String.Size(profile.FirstName) +
		ord.String.Size(profile.LastName) +
		ord.String.Size(profile.Field) +
		ord.String.Size(profile.Seeking) +
		ord.String.Size(profile.Offering) +
		sizeStrings(profile.Keywords) +
		ord.Bool.Size(profile.Active) +
		varint.Int64.Size(profile.CreatedAt.UnixMicro()) +
		varint.Int64.Size(profile.UpdatedAt.UnixMicro())

	buf := make([]byte, size)
	n := varint.Int64.Marshal(int64(profile.Id), buf)
	n += ord.String.Marshal(profile.Username, buf[n:])
	n += ord.String.Marshal(profile.FirstName, buf[n:])
	n += ord.String.Marshal(profile.LastName, buf[n:])
	n += ord.String.Marshal(profile.Field, buf[n:])
	n += ord.String.Marshal(profile.Seeking, buf[n:])
	n += ord.String.Marshal(profile.Offering, buf[n:])
	n += marshalStrings(profile.Keywords, buf[n:])
	n += ord.Bool.Marshal(profile.Active, buf[n:])
	n += varint.Int64.Marshal(profile.CreatedAt.UnixMicro(), buf[n:])
	varint.Int64.Marshal(profile.UpdatedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalProfile deserializes a Profile from bytes.
func UnmarshalProfile(data []byte) (*core.Profile, error) {
	profile := &core.Profile{}

	id, n, err := varint.Int64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: profile id: %w", ErrSerializationFailed, err)
	}
	profile.Id = core.UserID(id)

	for _, field := range []*string{
		&profile.Username, &profile.FirstName, &profile.LastName,
		&profile.Field, &profile.Seeking, &profile.Offering,
	} {
		s, sn, err := ord.String.Unmarshal(data[n:])
		n += sn
		if err != nil {
			return nil, fmt.Errorf("%w: profile text: %w", ErrSerializationFailed, err)
		}
		*field = s
	}

	keywords, kn, err := unmarshalStrings(data[n:])
	n += kn
	if err != nil {
		return nil, fmt.Errorf("%w: profile keywords: %w", ErrSerializationFailed, err)
	}
	profile.Keywords = keywords

	active, an, err := ord.Bool.Unmarshal(data[n:])
	n += an
	if err != nil {
		return nil, fmt.Errorf("%w: profile active flag: %w", ErrSerializationFailed, err)
	}
	profile.Active = active

	created, cn, err := varint.Int64.Unmarshal(data[n:])
	n += cn
	if err != nil {
		return nil, fmt.Errorf("%w: profile created at: %w", ErrSerializationFailed, err)
	}
	updated, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: profile updated at: %w", ErrSerializationFailed, err)
	}
	profile.CreatedAt = time.UnixMicro(created).UTC()
	profile.UpdatedAt = time.UnixMicro(updated).UTC()

	return profile, nil
}

// MarshalHistoryEntry serializes a HistoryEntry to bytes.
func MarshalHistoryEntry(entry *core.HistoryEntry) []byte {
	size := varint.Uint64.Size(uint64(entry.Id)) +
		varint.Int64.Size(int64(entry.UserId)) +
		ord.String.Size(entry.Field) +
		ord.String.Size(entry.Seeking) +
		ord.String.Size(entry.Offering) +
		sizeStrings(entry.Keywords) +
		varint.Int64.Size(entry.ArchivedAt.UnixMicro())

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(entry.Id), buf)
	n += varint.Int64.Marshal(int64(entry.UserId), buf[n:])
	n += ord.String.Marshal(entry.Field, buf[n:])
	n += ord.String.Marshal(entry.Seeking, buf[n:])
	n += ord.String.Marshal(entry.Offering, buf[n:])
	n += marshalStrings(entry.Keywords, buf[n:])
	varint.Int64.Marshal(entry.ArchivedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalHistoryEntry deserializes a HistoryEntry from bytes.
func UnmarshalHistoryEntry(data []byte) (*core.HistoryEntry, error) {
	entry := &core.HistoryEntry{}

	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: history id: %w", ErrSerializationFailed, err)
	}
	entry.Id = core.ID(id)

	userID, un, err := varint.Int64.Unmarshal(data[n:])
	n += un
	if err != nil {
		return nil, fmt.Errorf("%w: history user id: %w", ErrSerializationFailed, err)
	}
	entry.UserId = core.UserID(userID)

	for _, field := range []*string{&entry.Field, &entry.Seeking, &entry.Offering} {
		s, sn, err := ord.String.Unmarshal(data[n:])
		n += sn
		if err != nil {
			return nil, fmt.Errorf("%w: history text: %w", ErrSerializationFailed, err)
		}
		*field = s
	}

	keywords, kn, err := unmarshalStrings(data[n:])
	n += kn
	if err != nil {
		return nil, fmt.Errorf("%w: history keywords: %w", ErrSerializationFailed, err)
	}
	entry.Keywords = keywords

	archived, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: history archived at: %w", ErrSerializationFailed, err)
	}
	entry.ArchivedAt = time.UnixMicro(archived).UTC()

	return entry, nil
}

func sizeStrings(ss []string) int {
	size := varint.PositiveInt.Size(len(ss))
	for _, s := range ss {
		size += ord.String.Size(s)
	}
	return size
}

func marshalStrings(ss []string, buf []byte) int {
	n := varint.PositiveInt.Marshal(len(ss), buf)
	for _, s := range ss {
		n += ord.String.Marshal(s, buf[n:])
	}
	return n
}

func unmarshalStrings(data []byte) ([]string, int, error) {
	count, n, err := varint.PositiveInt.Unmarshal(data)
	if err != nil {
		return nil, n, err
	}
	if count == 0 {
		return nil, n, nil
	}
	ss := make([]string, 0, count)
	for i := 0; i < count; i++ {
		s, sn, err := ord.String.Unmarshal(data[n:])
		n += sn
		if err != nil {
			return nil, n, err
		}
		ss = append(ss, s)
	}
	return ss, n, nil
}
