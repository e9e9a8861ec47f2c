package photo

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Metadata is the set of optional filter criteria extracted from a user query.
// Every field is independently optional; an absent field places no constraint.
type Metadata struct {
	title           string
	description     string
	person          string
	deviceType      string
	appName         string
	localFolderName string

	latitude  *float64
	longitude *float64
	altitude  *float64

	timestamp       *int64
	timestampBefore *int64
	timestampAfter  *int64
}

// MetadataBuilder assembles a Metadata value. Used by decoders and tests.
type MetadataBuilder struct {
	m Metadata
}

// NewMetadataBuilder starts an empty Metadata.
func NewMetadataBuilder() *MetadataBuilder { return &MetadataBuilder{} }

// Title sets the title criterion.
func (b *MetadataBuilder) Title(v string) *MetadataBuilder { b.m.title = v; return b }

// Description sets the description criterion.
func (b *MetadataBuilder) Description(v string) *MetadataBuilder { b.m.description = v; return b }

// Person sets the recognized person criterion.
func (b *MetadataBuilder) Person(v string) *MetadataBuilder { b.m.person = v; return b }

// DeviceType sets the device type criterion.
func (b *MetadataBuilder) DeviceType(v string) *MetadataBuilder { b.m.deviceType = v; return b }

// AppName sets the upload application criterion.
func (b *MetadataBuilder) AppName(v string) *MetadataBuilder { b.m.appName = v; return b }

// LocalFolderName sets the on-device folder criterion.
func (b *MetadataBuilder) LocalFolderName(v string) *MetadataBuilder {
	b.m.localFolderName = v
	return b
}

// Latitude sets the latitude criterion.
func (b *MetadataBuilder) Latitude(v float64) *MetadataBuilder { b.m.latitude = &v; return b }

// Longitude sets the longitude criterion.
func (b *MetadataBuilder) Longitude(v float64) *MetadataBuilder { b.m.longitude = &v; return b }

// Altitude sets the altitude criterion.
func (b *MetadataBuilder) Altitude(v float64) *MetadataBuilder { b.m.altitude = &v; return b }

// Timestamp sets the exact capture time criterion (UNIX seconds).
func (b *MetadataBuilder) Timestamp(v int64) *MetadataBuilder { b.m.timestamp = &v; return b }

// TimestampBefore sets the inclusive upper capture time bound.
func (b *MetadataBuilder) TimestampBefore(v int64) *MetadataBuilder {
	b.m.timestampBefore = &v
	return b
}

// TimestampAfter sets the inclusive lower capture time bound.
func (b *MetadataBuilder) TimestampAfter(v int64) *MetadataBuilder {
	b.m.timestampAfter = &v
	return b
}

// Build returns the assembled Metadata.
func (b *MetadataBuilder) Build() Metadata { return b.m }

// Title returns the title criterion.
func (m Metadata) Title() string { return m.title }

// Description returns the description criterion.
func (m Metadata) Description() string { return m.description }

// Person returns the person criterion as extracted (original casing).
func (m Metadata) Person() string { return m.person }

// DeviceType returns the device type criterion.
func (m Metadata) DeviceType() string { return m.deviceType }

// AppName returns the upload application criterion.
func (m Metadata) AppName() string { return m.appName }

// LocalFolderName returns the on-device folder criterion.
func (m Metadata) LocalFolderName() string { return m.localFolderName }

// Latitude returns the latitude criterion, nil if absent.
func (m Metadata) Latitude() *float64 { return m.latitude }

// Longitude returns the longitude criterion, nil if absent.
func (m Metadata) Longitude() *float64 { return m.longitude }

// Altitude returns the altitude criterion, nil if absent.
func (m Metadata) Altitude() *float64 { return m.altitude }

// Timestamp returns the exact capture time criterion, nil if absent.
func (m Metadata) Timestamp() *int64 { return m.timestamp }

// TimestampBefore returns the upper capture time bound, nil if absent.
func (m Metadata) TimestampBefore() *int64 { return m.timestampBefore }

// TimestampAfter returns the lower capture time bound, nil if absent.
func (m Metadata) TimestampAfter() *int64 { return m.timestampAfter }

// IsEmpty reports whether no criterion is populated.
func (m Metadata) IsEmpty() bool {
	return m.title == "" && m.description == "" && m.person == "" &&
		m.deviceType == "" && m.appName == "" && m.localFolderName == "" &&
		m.latitude == nil && m.longitude == nil && m.altitude == nil &&
		m.timestamp == nil && m.timestampBefore == nil && m.timestampAfter == nil
}

// MetadataFromJSON decodes a model-produced JSON object into Metadata.
// Unknown keys are ignored and null values mean "absent". Numeric strings are
// accepted for numeric fields and numbers are formatted for string fields.
func MetadataFromJSON(data []byte) (Metadata, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Metadata{}, fmt.Errorf("decode object: %w", err)
	}
	if raw == nil {
		return Metadata{}, fmt.Errorf("expected a JSON object, got null")
	}

	// The payload stores names under "persons"; models sometimes echo that key.
	if _, ok := raw[FieldPerson]; !ok {
		if v, ok := raw[PayloadPersons]; ok {
			raw[FieldPerson] = v
		}
	}

	b := NewMetadataBuilder()
	strFields := []struct {
		name string
		set  func(string) *MetadataBuilder
	}{
		{FieldTitle, b.Title},
		{FieldDescription, b.Description},
		{FieldPerson, b.Person},
		{FieldDeviceType, b.DeviceType},
		{FieldAppName, b.AppName},
		{FieldLocalFolderName, b.LocalFolderName},
	}
	for _, f := range strFields {
		v, ok, err := decodeString(raw[f.name])
		if err != nil {
			return Metadata{}, fmt.Errorf("field %q: %w", f.name, err)
		}
		if ok {
			f.set(v)
		}
	}

	floatFields := []struct {
		name string
		set  func(float64) *MetadataBuilder
	}{
		{FieldLatitude, b.Latitude},
		{FieldLongitude, b.Longitude},
		{FieldAltitude, b.Altitude},
	}
	for _, f := range floatFields {
		v, ok, err := decodeFloat(raw[f.name])
		if err != nil {
			return Metadata{}, fmt.Errorf("field %q: %w", f.name, err)
		}
		if ok {
			f.set(v)
		}
	}

	intFields := []struct {
		name string
		set  func(int64) *MetadataBuilder
	}{
		{FieldTimestamp, b.Timestamp},
		{FieldTimestampBefore, b.TimestampBefore},
		{FieldTimestampAfter, b.TimestampAfter},
	}
	for _, f := range intFields {
		v, ok, err := decodeInt(raw[f.name])
		if err != nil {
			return Metadata{}, fmt.Errorf("field %q: %w", f.name, err)
		}
		if ok {
			f.set(v)
		}
	}

	return b.Build(), nil
}

// decodeValue unmarshals a raw JSON value with number preservation.
// Returns nil for missing or null values.
func decodeValue(msg json.RawMessage) (any, error) {
	if len(msg) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(string(msg)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return v, nil
}

func decodeString(msg json.RawMessage) (string, bool, error) {
	v, err := decodeValue(msg)
	if err != nil || v == nil {
		return "", false, err
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != "", nil
	case json.Number:
		return t.String(), true, nil
	case bool:
		return strconv.FormatBool(t), true, nil
	default:
		return "", false, fmt.Errorf("expected string, got %T", v)
	}
}

// numberText returns the textual form of a JSON number or numeric string.
func numberText(msg json.RawMessage) (string, bool, error) {
	v, err := decodeValue(msg)
	if err != nil || v == nil {
		return "", false, err
	}
	switch t := v.(type) {
	case json.Number:
		return t.String(), true, nil
	case string:
		s := strings.TrimSpace(t)
		return s, s != "", nil
	default:
		return "", false, fmt.Errorf("expected number, got %T", v)
	}
}

func decodeFloat(msg json.RawMessage) (float64, bool, error) {
	s, ok, err := numberText(msg)
	if err != nil || !ok {
		return 0, false, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("expected finite number, got %q", s)
	}
	return f, true, nil
}

// decodeInt accepts integers exactly, and whole floats such as 1685577599.0
// when they fit in an int64.
func decodeInt(msg json.RawMessage) (int64, bool, error) {
	s, ok, err := numberText(msg)
	if err != nil || !ok {
		return 0, false, err
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false, fmt.Errorf("expected integer, got %q", s)
	}
	return int64(f), true, nil
}
