// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package relay

import (
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// subscriptionRequest is the single frame sent after the socket opens.
// Field names follow the aisstream.io subscription schema.
type subscriptionRequest struct {
	APIKey             string        `json:"APIKey"`
	BoundingBoxes      [][][]float64 `json:"BoundingBoxes"`
	FilterMessageTypes []string      `json:"FilterMessageTypes"`
}

// newSubscriptionRequest builds a global-coverage, position-report-only
// subscription for the given credential.
func newSubscriptionRequest(apiKey string) subscriptionRequest {
	return subscriptionRequest{
		APIKey:             apiKey,
		BoundingBoxes:      [][][]float64{{{-90, -180}, {90, 180}}},
		FilterMessageTypes: []string{"PositionReport"},
	}
}

// inboundFrame is the wire shape of an upstream message. Only frames that
// carry a PositionReport payload are ingested; everything else is discarded
// without being treated as an error.
type inboundFrame struct {
	MessageType string `json:"MessageType"`
	MetaData    struct {
		MMSI      int64   `json:"MMSI"`
		ShipName  string  `json:"ShipName"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"MetaData"`
	Message struct {
		PositionReport *positionReport `json:"PositionReport"`
	} `json:"Message"`
}

// positionReport holds the message-level fields. Pointers distinguish absent
// fields from zero values; absent coordinates fall back to the MetaData pair.
type positionReport struct {
	Latitude    *float64 `json:"Latitude"`
	Longitude   *float64 `json:"Longitude"`
	ShipType    *int     `json:"ShipType"`
	TrueHeading *float64 `json:"TrueHeading"`
	Sog         *float64 `json:"Sog"`
	Cog         *float64 `json:"Cog"`
}

// positionUpdate is the validated, normalized form handed to the
// aggregation state.
type positionUpdate struct {
	MMSI     string
	Name     string
	Lat      float64
	Lon      float64
	ShipType int
	Heading  float64
	Speed    float64
	Course   float64
}

// dropReason classifies why an inbound frame was not ingested.
type dropReason string

const (
	dropNone          dropReason = ""
	dropUnparseable   dropReason = "unparseable"
	dropNonPosition   dropReason = "non_position"
	dropInvalidReport dropReason = "invalid_report"
)

// parseFrame decodes one inbound frame. It returns ok=false with a drop
// reason for anything that is not a valid position report.
func parseFrame(data []byte) (positionUpdate, dropReason) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return positionUpdate{}, dropUnparseable
	}

	report := frame.Message.PositionReport
	if report == nil {
		return positionUpdate{}, dropNonPosition
	}

	update := positionUpdate{
		Name: frame.MetaData.ShipName,
		Lat:  frame.MetaData.Latitude,
		Lon:  frame.MetaData.Longitude,
	}
	if frame.MetaData.MMSI > 0 {
		update.MMSI = strconv.FormatInt(frame.MetaData.MMSI, 10)
	}

	// Message-level coordinates take precedence over the MetaData fallback.
	if report.Latitude != nil {
		update.Lat = *report.Latitude
	}
	if report.Longitude != nil {
		update.Lon = *report.Longitude
	}
	if report.ShipType != nil {
		update.ShipType = *report.ShipType
	}
	if report.TrueHeading != nil {
		update.Heading = *report.TrueHeading
	}
	if report.Sog != nil {
		update.Speed = *report.Sog
	}
	if report.Cog != nil {
		update.Course = *report.Cog
	}

	if update.MMSI == "" || !isFinite(update.Lat) || !isFinite(update.Lon) {
		return positionUpdate{}, dropInvalidReport
	}

	return update, dropNone
}

// isFinite reports whether f is neither NaN nor infinite.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
