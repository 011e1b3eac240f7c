// Package tracker maintains a fixed-capacity, most-recently-seen table of
// aircraft built from decoded Mode-S observations.
package tracker

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"adsbtrack/internal/decoder"
)

// DefaultCapacity is N, the slab size used when Config.Capacity is zero.
const DefaultCapacity = 512

// DefaultInactiveCutoff is the Snapshot staleness cutoff used when
// Config.InactiveCutoff is zero.
const DefaultInactiveCutoff = 60 * time.Second

// Tag carries a per-frame station-position override, used as the
// second-priority input to calcReferencePosition.
type Tag struct {
	StationLat  float64
	StationLon  float64
	HasStation  bool
}

// entry is one slab slot: an aircraft's merged kinematic state plus its
// position in the intrusive LRU chain.
type entry struct {
	icao    uint32
	hasICAO bool

	rxTime    float64
	nMessages int

	lat, lon        float64
	hasLatLon       bool
	latLonTimestamp float64

	even, odd decoder.CPRHalf

	altitude    int
	hasAltitude bool

	speed    float64
	hasSpeed bool

	heading    float64
	hasHeading bool

	vertRate    int
	hasVertRate bool

	squawk    int
	hasSquawk bool

	callsign string

	airborne decoder.Airborne

	prev, next int
}

func (e *entry) clear() {
	prev, next := e.prev, e.next
	*e = entry{prev: prev, next: next}
}

// Tracker is the concurrent, fixed-capacity aircraft table described by the
// intrusive doubly-linked LRU over an array-backed slab. All operations are
// serialised by a single mutex (Ingest, Snapshot, station-position setters).
type Tracker struct {
	mu sync.Mutex

	slab  []entry
	index map[uint32]int

	first, last, count int
	capacity            int

	stationLat, stationLon float64
	hasStation             bool

	warnedNoSurfaceRef bool

	inactiveCutoff time.Duration

	logger *logrus.Logger
}

// New builds a Tracker with the given slab capacity. capacity <= 0 selects
// DefaultCapacity.
func New(capacity int, logger *logrus.Logger) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	t := &Tracker{
		slab:           make([]entry, capacity),
		index:          make(map[uint32]int, capacity),
		capacity:       capacity,
		inactiveCutoff: DefaultInactiveCutoff,
		logger:         logger,
	}

	// Chain the slab in slot order; the "empty" region lives at the LRU
	// end, matching the layout used before any aircraft is assigned.
	for i := range t.slab {
		t.slab[i].next = i - 1
		t.slab[i].prev = i + 1
	}
	t.slab[capacity-1].prev = -1

	t.first = capacity - 1
	t.last = 0
	t.count = 0

	return t
}

// SetStationPosition sets the tracker-wide reference position used for
// surface CPR resolution when no per-aircraft or per-tag position applies.
func (t *Tracker) SetStationPosition(lat, lon float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stationLat = lat
	t.stationLon = lon
	t.hasStation = true
}

// SetInactiveCutoff overrides the Snapshot staleness cutoff (default 60s).
func (t *Tracker) SetInactiveCutoff(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inactiveCutoff = d
}

func (t *Tracker) find(icao uint32) int {
	if ptr, ok := t.index[icao]; ok {
		return ptr
	}
	return -1
}

// moveToFront splices ptr to the MRU head of the LRU chain.
func (t *Tracker) moveToFront(ptr int) {
	if ptr == t.first {
		return
	}

	if t.slab[ptr].next != -1 {
		t.slab[t.slab[ptr].next].prev = t.slab[ptr].prev
	} else {
		t.last = t.slab[ptr].prev
	}
	t.slab[t.slab[ptr].prev].next = t.slab[ptr].next

	t.slab[ptr].next = t.first
	t.slab[ptr].prev = -1
	t.slab[t.first].prev = ptr
	t.first = ptr
}

// create evicts the LRU tail slot and returns it, clearing its contents and
// bumping count up to capacity.
func (t *Tracker) create() int {
	ptr := t.last
	if t.slab[ptr].hasICAO {
		delete(t.index, t.slab[ptr].icao)
	}
	if t.count < t.capacity {
		t.count++
	}
	t.slab[ptr].clear()
	return ptr
}

// calcReferencePosition resolves the surface/local-fallback reference
// position for the aircraft at ptr, in precedence order: the aircraft's own
// last known position, then the tag's station override, then the tracker's
// configured station. Returns ok=false if none apply.
func (t *Tracker) calcReferencePosition(tag Tag, ptr int) (lat, lon float64, ok bool) {
	if t.hasStation {
		lat, lon, ok = t.stationLat, t.stationLon, true
	}
	if tag.HasStation {
		lat, lon, ok = tag.StationLat, tag.StationLon, true
	}
	if t.slab[ptr].hasLatLon {
		lat, lon, ok = t.slab[ptr].lat, t.slab[ptr].lon, true
	}
	return lat, lon, ok
}

// Ingest merges a decoded Observation into the tracker, per the merge and
// CPR-resolution rules: reject unknown ICAO, find-or-create-unless-implied,
// move to front, merge fields that aren't "undefined", then attempt CPR
// resolution for whichever half-frame was just updated.
func (t *Tracker) Ingest(obs decoder.Observation, tag Tag) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !obs.HasICAO {
		return
	}

	ptr := t.find(obs.ICAO)
	if ptr == -1 {
		if obs.ICAOSource == decoder.ImpliedFromCRC {
			return
		}
		ptr = t.create()
	}

	t.moveToFront(ptr)
	e := &t.slab[ptr]

	e.icao = obs.ICAO
	e.hasICAO = true
	t.index[obs.ICAO] = ptr

	e.rxTime = obs.RxTime
	e.nMessages++

	var updatedEven bool
	haveUpdate := false

	if obs.Even.Valid {
		e.even = obs.Even
		haveUpdate = true
		updatedEven = true
	}
	if obs.Odd.Valid {
		e.odd = obs.Odd
		haveUpdate = true
		updatedEven = false
	}

	if haveUpdate {
		t.resolveCPR(tag, ptr, updatedEven)
	}

	if obs.HasAltitude {
		e.altitude = obs.Altitude
		e.hasAltitude = true
	}
	if obs.HasSpeed {
		e.speed = obs.Speed
		e.hasSpeed = true
	}
	if obs.HasHeading {
		e.heading = obs.Heading
		e.hasHeading = true
	}
	if obs.HasVertRate {
		e.vertRate = obs.VertRate
		e.hasVertRate = true
	}
	if obs.HasSquawk {
		e.squawk = obs.Squawk
		e.hasSquawk = true
	}
	if obs.Callsign != "" {
		e.callsign = obs.Callsign
	}
	if obs.Airborne != decoder.AirborneUnknown {
		e.airborne = obs.Airborne
	}
}

// resolveCPR attempts CPR position resolution for the entry at ptr after a
// new half-frame was merged, per the (even.valid, odd.valid, airborne_match)
// state machine: both halves present and agreeing attempts global
// resolution; a lone surface half falls back to reference-seeded local
// resolution when a reference is available. A lone airborne half has no
// fallback and waits for its missing pair.
func (t *Tracker) resolveCPR(tag Tag, ptr int, updatedEven bool) {
	e := &t.slab[ptr]

	if e.even.Valid && e.odd.Valid {
		if e.even.Airborne != e.odd.Airborne {
			return
		}

		if e.even.Airborne {
			lat, lon, ok := decoder.ResolveGlobalAirborne(e.even, e.odd, updatedEven)
			if !ok {
				return
			}
			t.publish(ptr, lat, lon, updatedEven)
			return
		}

		refLat, refLon, ok := t.calcReferencePosition(tag, ptr)
		if !ok {
			t.warnNoSurfaceReference()
			return
		}
		lat, lon, ok := decoder.ResolveGlobalSurface(e.even, e.odd, updatedEven, refLat, refLon)
		if !ok {
			return
		}
		t.publish(ptr, lat, lon, updatedEven)
		return
	}

	var half decoder.CPRHalf
	if updatedEven {
		half = e.even
	} else {
		half = e.odd
	}
	if !half.Valid {
		return
	}

	// Reference-seeded local resolution only covers surface traffic; a lone
	// airborne half waits for its other half rather than trusting a fix
	// that could be locally ambiguous at airborne ranges.
	if half.Airborne {
		return
	}

	refLat, refLon, ok := t.calcReferencePosition(tag, ptr)
	if !ok {
		t.warnNoSurfaceReference()
		return
	}

	lat, lon := decoder.ResolveWithReference(half, updatedEven, true, refLat, refLon)
	t.publish(ptr, lat, lon, updatedEven)
}

func (t *Tracker) publish(ptr int, lat, lon float64, updatedEven bool) {
	e := &t.slab[ptr]
	e.lat = lat
	e.lon = lon
	e.hasLatLon = true
	if updatedEven {
		e.latLonTimestamp = e.even.Timestamp
	} else {
		e.latLonTimestamp = e.odd.Timestamp
	}
}

func (t *Tracker) warnNoSurfaceReference() {
	if t.warnedNoSurfaceRef {
		return
	}
	t.warnedNoSurfaceRef = true
	t.logger.Warn("tracker: no station or prior position available to resolve surface CPR position")
}
