package tracker

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adsbtrack/internal/decoder"
)

// TestSnapshotExcludesStaleEntries is invariant 8: Snapshot contains no
// entry older than the inactive cutoff when includeInactive is false.
func TestSnapshotExcludesStaleEntries(t *testing.T) {
	tr := New(4, newTestLogger())
	tr.SetInactiveCutoff(60 * time.Second)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	old := nowFunc
	defer func() { nowFunc = old }()

	// 0x600001 is ingested with rxTime=0 (the Unix epoch) -> always stale.
	tr.Ingest(directObs(0x600001), Tag{})

	freshTime := base.Add(119 * time.Second) // 1s old relative to the snapshot "now" below
	tr.Ingest(decoder.Observation{
		ICAO: 0x600002, HasICAO: true, ICAOSource: decoder.Direct,
		RxTime: float64(freshTime.Unix()),
	}, Tag{})

	nowFunc = func() time.Time { return base.Add(120 * time.Second) }

	all := tr.Snapshot(true)
	assert.Len(t, all, 2)

	active := tr.Snapshot(false)
	require.Len(t, active, 1)
	assert.Equal(t, uint32(0x600002), active[0].ICAO)
}

func TestSnapshotJSONFormat(t *testing.T) {
	aircraft := []Aircraft{
		{ICAO: 0x4840D6, Lat: 52.25, Lon: 3.92, HasLatLon: true, Altitude: 38000, HasAltitude: true, Callsign: "KLM1023 ", NMessages: 3},
		{ICAO: 0x123456, NMessages: 1},
	}

	got := SnapshotJSON(aircraft, len(aircraft))

	assert.True(t, strings.HasPrefix(got, `{"count":2,"values":[[`))
	assert.Contains(t, got, `"KLM1023 "`)
	assert.Contains(t, got, "null") // second aircraft has no position/altitude
	assert.True(t, strings.HasSuffix(got, `],"error":false}`))
}

func TestSnapshotJSONEmpty(t *testing.T) {
	assert.Equal(t, `{"count":0,"values":[],"error":false}`, SnapshotJSON(nil, 0))
}

// TestSnapshotJSONCountIsTotalNotLen is the crux of the contract: "count"
// reports the tracker's true total occupied-slot count, independent of a
// truncated (or otherwise shorter) values array.
func TestSnapshotJSONCountIsTotalNotLen(t *testing.T) {
	aircraft := []Aircraft{
		{ICAO: 0x123456, NMessages: 1},
	}

	got := SnapshotJSON(aircraft, 5)

	assert.True(t, strings.HasPrefix(got, `{"count":5,"values":[[`))
	assert.NotEqual(t, len(aircraft), 5)
}

// TestTrackerSnapshotJSONReportsTrueCountWhenTruncated exercises the
// Tracker-level wiring: Snapshot(false) truncates stale entries, but
// SnapshotJSON's "count" must still reflect every occupied slab slot.
func TestTrackerSnapshotJSONReportsTrueCountWhenTruncated(t *testing.T) {
	tr := New(4, newTestLogger())
	tr.SetInactiveCutoff(60 * time.Second)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	old := nowFunc
	defer func() { nowFunc = old }()

	// Stale: rxTime=0 (epoch) is always older than the cutoff below.
	tr.Ingest(directObs(0x600001), Tag{})

	freshTime := base.Add(119 * time.Second)
	tr.Ingest(decoder.Observation{
		ICAO: 0x600002, HasICAO: true, ICAOSource: decoder.Direct,
		RxTime: float64(freshTime.Unix()),
	}, Tag{})

	nowFunc = func() time.Time { return base.Add(120 * time.Second) }

	got := tr.SnapshotJSON(false)
	assert.True(t, strings.HasPrefix(got, `{"count":2,"values":[[`))
}
