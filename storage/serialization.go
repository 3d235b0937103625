// Copyright 2025 Hirelens Authors
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
	"math"
	"time"

	"github.com/hirelens/hirelens/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the primary record types. Fields are
// marshaled in struct order; adding a field means appending it at the
// end and bumping the key-space version in the badger backend.

var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

// IDMUS serializes core.ID values.
var IDMUS = idSer{}

type idSer struct{}

func (idSer) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idSer) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

// timeMUS serializes timestamps as UnixMicro with a sentinel for the
// zero value, which UnixMicro cannot represent round-trip.
var timeMUS = timeSer{}

const zeroTimeSentinel = math.MinInt64

type timeSer struct{}

func (timeSer) Marshal(t time.Time, bs []byte) int {
	v := int64(zeroTimeSentinel)
	if !t.IsZero() {
		v = t.UnixMicro()
	}
	return raw.Int64.Marshal(v, bs)
}

func (timeSer) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := raw.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	if v == zeroTimeSentinel {
		return time.Time{}, n, nil
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (timeSer) Size(t time.Time) int {
	return raw.Int64.Size(0)
}

// ExperienceMUS serializes core.Experience values.
var ExperienceMUS = experienceSer{}

type experienceSer struct{}

func (experienceSer) Marshal(e core.Experience, bs []byte) (n int) {
	n = IDMUS.Marshal(e.Id, bs)
	n += IDMUS.Marshal(e.CandidateId, bs[n:])
	n += ord.String.Marshal(e.Position, bs[n:])
	n += ord.String.Marshal(e.PositionCanonical, bs[n:])
	n += ord.String.Marshal(e.Company, bs[n:])
	n += ord.String.Marshal(e.Content, bs[n:])
	n += timeMUS.Marshal(e.StartDate, bs[n:])
	n += timeMUS.Marshal(e.EndDate, bs[n:])
	n += vectorMUS.Marshal(e.Vector, bs[n:])
	n += timeMUS.Marshal(e.InsertedAt, bs[n:])
	n += timeMUS.Marshal(e.UpdatedAt, bs[n:])
	return n
}

func (experienceSer) Unmarshal(bs []byte) (e core.Experience, n int, err error) {
	var m int
	if e.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if e.CandidateId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Position, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.PositionCanonical, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Company, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Content, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.StartDate, m, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.EndDate, m, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Vector, m, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.InsertedAt, m, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.UpdatedAt, m, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	return e, n, nil
}

func (experienceSer) Size(e core.Experience) (size int) {
	size = IDMUS.Size(e.Id)
	size += IDMUS.Size(e.CandidateId)
	size += ord.String.Size(e.Position)
	size += ord.String.Size(e.PositionCanonical)
	size += ord.String.Size(e.Company)
	size += ord.String.Size(e.Content)
	size += timeMUS.Size(e.StartDate)
	size += timeMUS.Size(e.EndDate)
	size += vectorMUS.Size(e.Vector)
	size += timeMUS.Size(e.InsertedAt)
	size += timeMUS.Size(e.UpdatedAt)
	return size
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalExperience serializes an Experience to bytes.
func MarshalExperience(exp *core.Experience) []byte {
	buf := make([]byte, ExperienceMUS.Size(*exp))
	ExperienceMUS.Marshal(*exp, buf)
	return buf
}

// UnmarshalExperience deserializes an Experience from bytes.
func UnmarshalExperience(data []byte) (*core.Experience, error) {
	exp, _, err := ExperienceMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &exp, nil
}
