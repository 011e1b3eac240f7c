package tracker

import (
	"strconv"
	"strings"
	"time"

	"adsbtrack/internal/decoder"
)

// Aircraft is the exported, read-only view of one tracked aircraft row.
type Aircraft struct {
	ICAO uint32

	Lat, Lon  float64
	HasLatLon bool

	Altitude    int
	HasAltitude bool

	Speed    float64
	HasSpeed bool

	Heading    float64
	HasHeading bool

	VertRate    int
	HasVertRate bool

	Squawk    int
	HasSquawk bool

	Callsign string

	Airborne decoder.Airborne

	NMessages int
	Age       time.Duration
}

// Get returns the current merged state for icao, if tracked.
func (t *Tracker) Get(icao uint32) (Aircraft, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ptr, ok := t.index[icao]
	if !ok {
		return Aircraft{}, false
	}

	e := &t.slab[ptr]
	return Aircraft{
		ICAO:        e.icao,
		Lat:         e.lat,
		Lon:         e.lon,
		HasLatLon:   e.hasLatLon,
		Altitude:    e.altitude,
		HasAltitude: e.hasAltitude,
		Speed:       e.speed,
		HasSpeed:    e.hasSpeed,
		Heading:     e.heading,
		HasHeading:  e.hasHeading,
		VertRate:    e.vertRate,
		HasVertRate: e.hasVertRate,
		Squawk:      e.squawk,
		HasSquawk:   e.hasSquawk,
		Callsign:    e.callsign,
		Airborne:    e.airborne,
		NMessages:   e.nMessages,
		Age:         nowFunc().Sub(time.Unix(int64(e.rxTime), 0)),
	}, true
}

// Snapshot returns the currently-tracked aircraft, MRU-first, truncated at
// the first entry whose age exceeds the configured inactive cutoff unless
// includeInactive is set.
func (t *Tracker) Snapshot(includeInactive bool) []Aircraft {
	t.mu.Lock()
	defer t.mu.Unlock()

	out, _ := t.snapshotLocked(includeInactive)
	return out
}

// SnapshotJSON renders the tracker's current state in the compact wire
// format, with "count" set to the slab's true occupied-slot total rather
// than the length of the (possibly truncated) values array.
func (t *Tracker) SnapshotJSON(includeInactive bool) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out, total := t.snapshotLocked(includeInactive)
	return SnapshotJSON(out, total)
}

// snapshotLocked builds the MRU-first aircraft list alongside the slab's
// true occupied-slot count. Callers must hold t.mu.
func (t *Tracker) snapshotLocked(includeInactive bool) ([]Aircraft, int) {
	now := nowFunc()

	out := make([]Aircraft, 0, t.count)
	ptr := t.first
	for ptr != -1 {
		e := &t.slab[ptr]
		if !e.hasICAO {
			ptr = e.next
			continue
		}

		age := now.Sub(time.Unix(int64(e.rxTime), 0))
		if !includeInactive && age > t.inactiveCutoff {
			break
		}

		a := Aircraft{
			ICAO:        e.icao,
			Lat:         e.lat,
			Lon:         e.lon,
			HasLatLon:   e.hasLatLon,
			Altitude:    e.altitude,
			HasAltitude: e.hasAltitude,
			Speed:       e.speed,
			HasSpeed:    e.hasSpeed,
			Heading:     e.heading,
			HasHeading:  e.hasHeading,
			VertRate:    e.vertRate,
			HasVertRate: e.hasVertRate,
			Squawk:      e.squawk,
			HasSquawk:   e.hasSquawk,
			Callsign:    e.callsign,
			Airborne:    e.airborne,
			NMessages:   e.nMessages,
			Age:         age,
		}
		out = append(out, a)

		ptr = e.next
	}

	return out, t.count
}

// nowFunc is overridden in tests to make age-based truncation deterministic.
var nowFunc = time.Now

// SnapshotJSON renders the compact array-of-arrays wire format described in
// the external-interfaces contract: {"count":N,"values":[[...],...],"error":false}.
// totalCount is the tracker's true occupied-slot total; it is reported
// independently of len(aircraft) because aircraft may be a truncated view
// (Snapshot(false) drops stale trailing entries while totalCount does not).
func SnapshotJSON(aircraft []Aircraft, totalCount int) string {
	var b strings.Builder

	b.WriteString(`{"count":`)
	b.WriteString(strconv.Itoa(totalCount))
	b.WriteString(`,"values":[`)

	for i, a := range aircraft {
		if i > 0 {
			b.WriteByte(',')
		}
		writeRow(&b, a)
	}

	b.WriteString(`],"error":false}`)
	return b.String()
}

func writeRow(b *strings.Builder, a Aircraft) {
	b.WriteByte('[')
	b.WriteString(strconv.FormatUint(uint64(a.ICAO), 10))
	b.WriteByte(',')
	writeFloat(b, a.Lat, a.HasLatLon)
	b.WriteByte(',')
	writeFloat(b, a.Lon, a.HasLatLon)
	b.WriteByte(',')
	writeInt(b, a.Altitude, a.HasAltitude)
	b.WriteByte(',')
	writeFloat(b, a.Speed, a.HasSpeed)
	b.WriteByte(',')
	writeFloat(b, a.Heading, a.HasHeading)
	b.WriteByte(',')
	writeInt(b, a.VertRate, a.HasVertRate)
	b.WriteByte(',')
	writeInt(b, a.Squawk, a.HasSquawk)
	b.WriteByte(',')
	b.WriteByte('"')
	b.WriteString(a.Callsign)
	b.WriteByte('"')
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(int(a.Airborne)))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(a.NMessages))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(int64(a.Age.Seconds()), 10))
	b.WriteByte(']')
}

func writeFloat(b *strings.Builder, v float64, ok bool) {
	if !ok {
		b.WriteString("null")
		return
	}
	b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
}

func writeInt(b *strings.Builder, v int, ok bool) {
	if !ok {
		b.WriteString("null")
		return
	}
	b.WriteString(strconv.Itoa(v))
}
