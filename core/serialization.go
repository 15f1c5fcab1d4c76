// Copyright 2025 Tastetrail Authors
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


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain types. The schema is small and stable, so
// the serializers are written by hand against the mus-go primitives rather
// than generated.
var (
	IDMUS              = idSer{}
	MenuItemMUS        = menuItemSer{}
	ReviewMUS          = reviewSer{}
	AttributeScoresMUS = attributeScoresSer{}
	PlaceMUS           = placeSer{}

	// VectorMUS serializes embedding vectors.
	VectorMUS = ord.NewSliceSer[float32](varint.Float32)

	menuSliceMUS   = ord.NewSliceSer[MenuItem](MenuItemMUS)
	reviewSliceMUS = ord.NewSliceSer[Review](ReviewMUS)
)

type idSer struct{}

func (idSer) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idSer) Unmarshal(bs []byte) (ID, int, error) {
	num, n, err := varint.Uint64.Unmarshal(bs)
	return ID(num), n, err
}

func (idSer) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type menuItemSer struct{}

func (menuItemSer) Marshal(v MenuItem, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += varint.Float64.Marshal(v.Price, bs[n:])
	return
}

func (menuItemSer) Unmarshal(bs []byte) (v MenuItem, n int, err error) {
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Price, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	return
}

func (menuItemSer) Size(v MenuItem) int {
	return ord.String.Size(v.Name) + varint.Float64.Size(v.Price)
}

func (menuItemSer) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Float64.Skip(bs[n:])
	n += n1
	return
}

type reviewSer struct{}

func (reviewSer) Marshal(v Review, bs []byte) (n int) {
	n = varint.Float64.Marshal(v.Rating, bs)
	n += ord.String.Marshal(v.Content, bs[n:])
	n += ord.String.Marshal(v.Author, bs[n:])
	return
}

func (reviewSer) Unmarshal(bs []byte) (v Review, n int, err error) {
	v.Rating, n, err = varint.Float64.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Author, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (reviewSer) Size(v Review) int {
	return varint.Float64.Size(v.Rating) + ord.String.Size(v.Content) +
		ord.String.Size(v.Author)
}

func (reviewSer) Skip(bs []byte) (n int, err error) {
	n, err = varint.Float64.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

type attributeScoresSer struct{}

func (attributeScoresSer) Marshal(v AttributeScores, bs []byte) (n int) {
	n = varint.Float64.Marshal(v.Space, bs)
	n += varint.Float64.Marshal(v.Position, bs[n:])
	n += varint.Float64.Marshal(v.Quality, bs[n:])
	n += varint.Float64.Marshal(v.Service, bs[n:])
	n += varint.Float64.Marshal(v.Price, bs[n:])
	return
}

func (attributeScoresSer) Unmarshal(bs []byte) (v AttributeScores, n int, err error) {
	fields := []*float64{&v.Space, &v.Position, &v.Quality, &v.Service, &v.Price}
	var n1 int
	for _, field := range fields {
		*field, n1, err = varint.Float64.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (attributeScoresSer) Size(v AttributeScores) int {
	return varint.Float64.Size(v.Space) + varint.Float64.Size(v.Position) +
		varint.Float64.Size(v.Quality) + varint.Float64.Size(v.Service) +
		varint.Float64.Size(v.Price)
}

func (attributeScoresSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 5; i++ {
		n1, err = varint.Float64.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type placeSer struct{}

func (placeSer) Marshal(v Place, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Address, bs[n:])
	n += varint.Float64.Marshal(v.Location.Lat, bs[n:])
	n += varint.Float64.Marshal(v.Location.Lon, bs[n:])
	n += varint.Float64.Marshal(v.AvgRating, bs[n:])
	n += ord.String.Marshal(v.OpeningHours, bs[n:])
	n += ord.String.Marshal(v.PriceRange, bs[n:])
	n += ord.String.Marshal(v.AvatarURL, bs[n:])
	n += ord.String.Marshal(v.SourceURL, bs[n:])
	n += menuSliceMUS.Marshal(v.Menu, bs[n:])
	n += reviewSliceMUS.Marshal(v.Reviews, bs[n:])
	n += AttributeScoresMUS.Marshal(v.Scores, bs[n:])
	n += varint.Int64.Marshal(v.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return
}

func (placeSer) Unmarshal(bs []byte) (v Place, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	strs := []*string{&v.Name, &v.Address}
	for _, s := range strs {
		*s, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	floats := []*float64{&v.Location.Lat, &v.Location.Lon, &v.AvgRating}
	for _, f := range floats {
		*f, n1, err = varint.Float64.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	strs = []*string{&v.OpeningHours, &v.PriceRange, &v.AvatarURL, &v.SourceURL}
	for _, s := range strs {
		*s, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	v.Menu, n1, err = menuSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Reviews, n1, err = reviewSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Scores, n1, err = AttributeScoresMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt = time.UnixMicro(micros).UTC()
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (placeSer) Size(v Place) int {
	return IDMUS.Size(v.Id) +
		ord.String.Size(v.Name) +
		ord.String.Size(v.Address) +
		varint.Float64.Size(v.Location.Lat) +
		varint.Float64.Size(v.Location.Lon) +
		varint.Float64.Size(v.AvgRating) +
		ord.String.Size(v.OpeningHours) +
		ord.String.Size(v.PriceRange) +
		ord.String.Size(v.AvatarURL) +
		ord.String.Size(v.SourceURL) +
		menuSliceMUS.Size(v.Menu) +
		reviewSliceMUS.Size(v.Reviews) +
		AttributeScoresMUS.Size(v.Scores) +
		varint.Int64.Size(v.InsertedAt.UnixMicro()) +
		varint.Int64.Size(v.UpdatedAt.UnixMicro())
}

func (s placeSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
