package basestation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"adsbtrack/internal/decoder"
	"adsbtrack/internal/logging"
	"adsbtrack/internal/tracker"
)

// BaseStation message types
const (
	SEL = "SEL" // Selection Change
	ID  = "ID"  // New ID
	AIR = "AIR" // New Aircraft
	STA = "STA" // Status Change
	CLK = "CLK" // Click
	MSG = "MSG" // Transmission
)

// BaseStation transmission types
const (
	TransmissionES_ID_CAT       = 1 // Extended Squitter Aircraft ID and Category
	TransmissionES_SURFACE      = 2 // Extended Squitter Surface Position
	TransmissionES_AIRBORNE     = 3 // Extended Squitter Airborne Position
	TransmissionES_VELOCITY     = 4 // Extended Squitter Airborne Velocity
	TransmissionSURVEILLANCE    = 5 // Surveillance Alt, Squawk change
	TransmissionSURVEILLANCE_ID = 6 // Surveillance ID change
	TransmissionAIR_TO_AIR      = 7 // Air-to-Air Message
	TransmissionALL_CALL        = 8 // All Call Reply
)

// Message represents a BaseStation format message
type Message struct {
	MessageType      string
	TransmissionType int
	SessionID        int
	AircraftID       int
	HexIdent         string
	FlightID         int
	DateGenerated    time.Time
	TimeGenerated    time.Time
	DateLogged       time.Time
	TimeLogged       time.Time
	Callsign         string
	Altitude         string
	GroundSpeed      string
	Track            string
	Latitude         string
	Longitude        string
	VerticalRate     string
	Squawk           string
	Alert            string
	Emergency        string
	SPI              string
	IsOnGround       string
}

// Writer writes decoded observations in BaseStation (SBS-1) format.
type Writer struct {
	logRotator *logging.LogRotator
	logger     *logrus.Logger
	sessionID  int
	aircraftID int
}

// NewWriter creates a new BaseStation writer
func NewWriter(logRotator *logging.LogRotator, logger *logrus.Logger) *Writer {
	return &Writer{
		logRotator: logRotator,
		logger:     logger,
		sessionID:  1,
		aircraftID: 1,
	}
}

// WriteObservation formats one decoded Observation as a BaseStation MSG
// line, filling the position/kinematic fields in from the tracker's current
// merged state for that aircraft (current) since a single Observation may
// carry only a CPR half-frame rather than a resolved position.
func (w *Writer) WriteObservation(obs decoder.Observation, current tracker.Aircraft) error {
	baseMsg := w.convertObservation(obs, current)
	if baseMsg == nil {
		return nil
	}

	csvLine := w.formatCSV(baseMsg)

	writer, err := w.logRotator.GetWriter()
	if err != nil {
		return fmt.Errorf("failed to get log writer: %w", err)
	}

	if _, err := writer.Write([]byte(csvLine + "\n")); err != nil {
		return fmt.Errorf("failed to write to log: %w", err)
	}

	return nil
}

func (w *Writer) convertObservation(obs decoder.Observation, current tracker.Aircraft) *Message {
	if !obs.HasICAO {
		return nil
	}

	now := time.Now()
	rxTime := time.Unix(int64(obs.RxTime), 0)

	baseMsg := &Message{
		MessageType:   MSG,
		SessionID:     w.sessionID,
		AircraftID:    w.aircraftID,
		FlightID:      w.aircraftID,
		HexIdent:      fmt.Sprintf("%06X", obs.ICAO),
		DateGenerated: rxTime,
		TimeGenerated: rxTime,
		DateLogged:    now,
		TimeLogged:    now,
	}

	switch obs.DF {
	case 4, 5, 20, 21:
		baseMsg.TransmissionType = TransmissionSURVEILLANCE
		if obs.HasAltitude {
			baseMsg.Altitude = strconv.Itoa(obs.Altitude)
		}
		if obs.HasSquawk {
			baseMsg.Squawk = fmt.Sprintf("%04d", obs.Squawk)
		}

	case 11:
		baseMsg.TransmissionType = TransmissionALL_CALL

	case 17, 18:
		switch {
		case obs.TypeCode >= 1 && obs.TypeCode <= 4:
			baseMsg.TransmissionType = TransmissionES_ID_CAT
			baseMsg.Callsign = obs.Callsign

		case obs.TypeCode >= 5 && obs.TypeCode <= 8:
			baseMsg.TransmissionType = TransmissionES_SURFACE
			w.fillPosition(baseMsg, current)
			baseMsg.IsOnGround = "1"

		case obs.TypeCode >= 9 && obs.TypeCode <= 18:
			baseMsg.TransmissionType = TransmissionES_AIRBORNE
			w.fillPosition(baseMsg, current)
			if obs.HasAltitude {
				baseMsg.Altitude = strconv.Itoa(obs.Altitude)
			}

		case obs.TypeCode == 19:
			baseMsg.TransmissionType = TransmissionES_VELOCITY
			if obs.HasSpeed {
				baseMsg.GroundSpeed = strconv.Itoa(int(obs.Speed))
			}
			if obs.HasHeading {
				baseMsg.Track = fmt.Sprintf("%.1f", obs.Heading)
			}
			if obs.HasVertRate {
				baseMsg.VerticalRate = strconv.Itoa(obs.VertRate)
			}

		default:
			return nil
		}

	default:
		return nil
	}

	return baseMsg
}

func (w *Writer) fillPosition(baseMsg *Message, current tracker.Aircraft) {
	if !current.HasLatLon {
		return
	}
	baseMsg.Latitude = fmt.Sprintf("%.6f", current.Lat)
	baseMsg.Longitude = fmt.Sprintf("%.6f", current.Lon)
}

// formatCSV formats a BaseStation message as CSV
func (w *Writer) formatCSV(msg *Message) string {
	fields := []string{
		msg.MessageType,
		strconv.Itoa(msg.TransmissionType),
		strconv.Itoa(msg.SessionID),
		strconv.Itoa(msg.AircraftID),
		msg.HexIdent,
		strconv.Itoa(msg.FlightID),
		msg.DateGenerated.Format("2006/01/02"),
		msg.TimeGenerated.Format("15:04:05.000"),
		msg.DateLogged.Format("2006/01/02"),
		msg.TimeLogged.Format("15:04:05.000"),
		msg.Callsign,
		msg.Altitude,
		msg.GroundSpeed,
		msg.Track,
		msg.Latitude,
		msg.Longitude,
		msg.VerticalRate,
		msg.Squawk,
		msg.Alert,
		msg.Emergency,
		msg.SPI,
		msg.IsOnGround,
	}

	return strings.Join(fields, ",")
}
