package mqtt

import (
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/energycore/core/model"
)

// EnergyTopicFilter matches energy reports from every vehicle.
const EnergyTopicFilter = "vehicle/+/energy"

// EnergyLogMessage is the JSON payload a vehicle publishes on
// vehicle/{vehicle_id}/energy.
type EnergyLogMessage struct {
	MessageID        string    `json:"message_id,omitempty"`
	UserID           string    `json:"user_id"`
	EnergyConsumed   float64   `json:"energy_consumed"`
	DistanceTraveled float64   `json:"distance_traveled"`
	Cost             float64   `json:"cost"`
	CO2Emissions     float64   `json:"co2_emissions"`
	Timestamp        time.Time `json:"date"`
	Notes            string    `json:"notes,omitempty"`
}

// Record converts the message into a validated energy log for vehicleID.
func (m EnergyLogMessage) Record(vehicleID string) (model.EnergyLogRecord, error) {
	if m.UserID == "" {
		return model.EnergyLogRecord{}, fmt.Errorf("%w: missing user_id", model.ErrInvalidEnergyLog)
	}
	return model.NewEnergyLogRecord(model.EnergyLogRecord{
		UserID:           m.UserID,
		VehicleID:        vehicleID,
		EnergyConsumed:   m.EnergyConsumed,
		DistanceTraveled: m.DistanceTraveled,
		Cost:             m.Cost,
		CO2Emissions:     m.CO2Emissions,
		Timestamp:        m.Timestamp,
		Notes:            m.Notes,
	})
}

// Ack is published on vehicle/{vehicle_id}/energy/ack after a report is handled.
type Ack struct {
	MessageID string `json:"message_id,omitempty"`
	LogID     string `json:"log_id,omitempty"`
	Accepted  bool   `json:"accepted"`
	Error     string `json:"error,omitempty"`
}

// VehicleIDFromTopic extracts the vehicle id from vehicle/{id}/energy.
func VehicleIDFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "vehicle" || parts[2] != "energy" || parts[1] == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}
	return parts[1], nil
}

// AckTopic returns the acknowledgment topic for vehicleID.
func AckTopic(vehicleID string) string {
	return fmt.Sprintf("vehicle/%s/energy/ack", vehicleID)
}
