package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/securephotos/internal/domain"
	"github.com/kailas-cloud/securephotos/internal/domain/photo"
)

// FromMetadata translates extracted metadata into a conjunctive Expression.
//
// Condition order is stable: keyword fields, persons, geo, timestamp. An exact
// timestamp wins over timestamp_before/timestamp_after. Returns
// domain.ErrNoFilterableCriteria when no field is populated.
func FromMetadata(m photo.Metadata) (Expression, error) {
	var must []Condition

	keywords := []struct {
		key, value string
	}{
		{photo.FieldTitle, m.Title()},
		{photo.FieldDescription, m.Description()},
		{photo.FieldDeviceType, m.DeviceType()},
		{photo.FieldAppName, m.AppName()},
		{photo.FieldLocalFolderName, m.LocalFolderName()},
	}
	for _, kw := range keywords {
		if kw.value == "" {
			continue
		}
		c, err := NewMatch(kw.key, kw.value)
		if err != nil {
			return Expression{}, err
		}
		must = append(must, c)
	}

	// Names are stored lower-cased in the payload.
	if p := m.Person(); p != "" {
		c, err := NewMatch(photo.PayloadPersons, strings.ToLower(p))
		if err != nil {
			return Expression{}, err
		}
		must = append(must, c)
	}

	geo := []struct {
		key   string
		value *float64
	}{
		{photo.FieldLatitude, m.Latitude()},
		{photo.FieldLongitude, m.Longitude()},
		{photo.FieldAltitude, m.Altitude()},
	}
	for _, g := range geo {
		if g.value == nil {
			continue
		}
		c, err := NewPoint(g.key, *g.value)
		if err != nil {
			return Expression{}, err
		}
		must = append(must, c)
	}

	tc, ok, err := timestampCondition(m)
	if err != nil {
		return Expression{}, err
	}
	if ok {
		must = append(must, tc)
	}

	if len(must) == 0 {
		return Expression{}, domain.ErrNoFilterableCriteria
	}
	return All(must...)
}

func timestampCondition(m photo.Metadata) (Condition, bool, error) {
	if ts := m.Timestamp(); ts != nil {
		c, err := NewIntMatch(photo.FieldTimestamp, *ts)
		return c, err == nil, err
	}

	before, after := m.TimestampBefore(), m.TimestampAfter()
	if before == nil && after == nil {
		return Condition{}, false, nil
	}

	var iv Interval
	if after != nil {
		v := float64(*after)
		iv.Min = &v
	}
	if before != nil {
		v := float64(*before)
		iv.Max = &v
	}
	c, err := NewInterval(photo.FieldTimestamp, iv)
	if err != nil {
		return Condition{}, false, fmt.Errorf("timestamp range: %w", err)
	}
	return c, true, nil
}
