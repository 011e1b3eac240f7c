package tracker

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adsbtrack/internal/decoder"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func directObs(icao uint32) decoder.Observation {
	return decoder.Observation{
		ICAO:       icao,
		HasICAO:    true,
		ICAOSource: decoder.Direct,
	}
}

// chainLength walks the tracker's prev/next chain from first to last and
// returns its length, to check invariant 4 (a valid doubly-linked
// permutation over all N slots).
func chainLength(tr *Tracker) int {
	n := 0
	ptr := tr.first
	for ptr != -1 {
		n++
		ptr = tr.slab[ptr].next
	}
	return n
}

func TestNewBuildsValidChain(t *testing.T) {
	tr := New(4, newTestLogger())
	assert.Equal(t, 4, chainLength(tr))
	assert.Equal(t, 0, tr.count)
}

func TestNewDefaultsCapacity(t *testing.T) {
	tr := New(0, newTestLogger())
	assert.Equal(t, DefaultCapacity, len(tr.slab))
}

// TestLRUEviction is spec scenario 6: with N=4, ingesting 4 distinct
// direct-ICAO observations then a fifth evicts the first-ingested entry,
// the fifth lands at MRU, and the chain is still length 4.
func TestLRUEviction(t *testing.T) {
	tr := New(4, newTestLogger())

	icaos := []uint32{0x100001, 0x100002, 0x100003, 0x100004}
	for _, icao := range icaos {
		tr.Ingest(directObs(icao), Tag{})
	}

	tr.Ingest(directObs(0x100005), Tag{})

	_, ok := tr.Get(0x100001)
	assert.False(t, ok, "first-ingested ICAO must no longer be findable")

	assert.Equal(t, 4, chainLength(tr))
	assert.Equal(t, 4, tr.count)

	headEntry := tr.slab[tr.first]
	assert.Equal(t, uint32(0x100005), headEntry.icao)
}

// TestIngestMovesToFront is invariant 5.
func TestIngestMovesToFront(t *testing.T) {
	tr := New(4, newTestLogger())

	tr.Ingest(directObs(0x200001), Tag{})
	tr.Ingest(directObs(0x200002), Tag{})
	tr.Ingest(directObs(0x200001), Tag{}) // re-touch the first aircraft

	headEntry := tr.slab[tr.first]
	assert.Equal(t, uint32(0x200001), headEntry.icao)
}

// TestIngestUnknownImpliedICAOIsNoOp covers scenario 3's closing clause:
// an implied-ICAO observation for an aircraft not already tracked does not
// create a new entry.
func TestIngestUnknownImpliedICAOIsNoOp(t *testing.T) {
	tr := New(4, newTestLogger())

	obs := decoder.Observation{
		ICAO:        0x300001,
		HasICAO:     true,
		ICAOSource:  decoder.ImpliedFromCRC,
		Altitude:    22200,
		HasAltitude: true,
	}
	tr.Ingest(obs, Tag{})

	_, ok := tr.Get(0x300001)
	assert.False(t, ok)
	assert.Equal(t, 0, tr.count)
}

func TestIngestUnknownICAOSkipped(t *testing.T) {
	tr := New(4, newTestLogger())
	tr.Ingest(decoder.Observation{HasICAO: false}, Tag{})
	assert.Equal(t, 0, tr.count)
}

// TestSurfacePositionWithoutReferenceWarnsOnce is spec scenario 5: a valid
// even/odd surface CPR pair with no station and no prior position publishes
// nothing, and the warning fires exactly once across many such frames.
func TestSurfacePositionWithoutReferenceWarnsOnce(t *testing.T) {
	tr := New(4, newTestLogger())

	even := decoder.CPRHalf{Lat17: 40000, Lon17: 50000, Airborne: false, Valid: true}
	odd := decoder.CPRHalf{Lat17: 40001, Lon17: 50001, Airborne: false, Valid: true}

	for i := 0; i < 3; i++ {
		tr.Ingest(decoder.Observation{
			ICAO: 0x400001, HasICAO: true, ICAOSource: decoder.Direct,
			Even: even, Odd: odd,
		}, Tag{})
	}

	aircraft, ok := tr.Get(0x400001)
	require.True(t, ok)
	assert.False(t, aircraft.HasLatLon)
	assert.True(t, tr.warnedNoSurfaceRef)
}

// TestIngestResolvesSurfacePositionWithStation exercises calcReferencePosition
// precedence: the tracker-wide station position resolves a surface pair.
func TestIngestResolvesSurfacePositionWithStation(t *testing.T) {
	tr := New(4, newTestLogger())
	tr.SetStationPosition(52.2, 3.9)

	even := decoder.CPRHalf{Lat17: 40000, Lon17: 50000, Airborne: false, Valid: true}
	odd := decoder.CPRHalf{Lat17: 40001, Lon17: 50001, Airborne: false, Valid: true}

	tr.Ingest(decoder.Observation{
		ICAO: 0x400002, HasICAO: true, ICAOSource: decoder.Direct,
		Even: even, Odd: odd,
	}, Tag{})

	aircraft, ok := tr.Get(0x400002)
	require.True(t, ok)
	assert.True(t, aircraft.HasLatLon)
}

// TestIngestLoneAirborneHalfPublishesNothing is spec §4.2: airborne global
// resolution requires both halves; a lone fresh airborne half has no
// reference-seeded fallback, even when a station position is configured.
func TestIngestLoneAirborneHalfPublishesNothing(t *testing.T) {
	tr := New(4, newTestLogger())
	tr.SetStationPosition(52.2, 3.9)

	even := decoder.CPRHalf{Lat17: 93000, Lon17: 51372, Airborne: true, Valid: true}

	tr.Ingest(decoder.Observation{
		ICAO: 0x400003, HasICAO: true, ICAOSource: decoder.Direct,
		Even: even,
	}, Tag{})

	aircraft, ok := tr.Get(0x400003)
	require.True(t, ok)
	assert.False(t, aircraft.HasLatLon)
}

// TestCalcReferencePositionPrecedence checks aircraft-own-position beats
// tag override beats global station (spec §4.2 / Open Questions).
func TestCalcReferencePositionPrecedence(t *testing.T) {
	tr := New(4, newTestLogger())
	tr.SetStationPosition(1, 1)

	ptr := tr.create()
	tr.slab[ptr].icao = 0x500001
	tr.slab[ptr].hasICAO = true
	tr.index[0x500001] = ptr

	lat, lon, ok := tr.calcReferencePosition(Tag{}, ptr)
	assert.True(t, ok)
	assert.Equal(t, 1.0, lat)
	assert.Equal(t, 1.0, lon)

	lat, lon, ok = tr.calcReferencePosition(Tag{HasStation: true, StationLat: 2, StationLon: 2}, ptr)
	assert.True(t, ok)
	assert.Equal(t, 2.0, lat)
	assert.Equal(t, 2.0, lon)

	tr.slab[ptr].hasLatLon = true
	tr.slab[ptr].lat, tr.slab[ptr].lon = 3, 3
	lat, lon, ok = tr.calcReferencePosition(Tag{HasStation: true, StationLat: 2, StationLon: 2}, ptr)
	assert.True(t, ok)
	assert.Equal(t, 3.0, lat)
	assert.Equal(t, 3.0, lon)
}

func TestSetInactiveCutoffOverridesDefault(t *testing.T) {
	tr := New(4, newTestLogger())
	tr.SetInactiveCutoff(5 * time.Second)
	assert.Equal(t, 5*time.Second, tr.inactiveCutoff)
}
