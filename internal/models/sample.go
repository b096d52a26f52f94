package models

import "time"

// Sample is one ingestion event: ordered pressure and temperature readings.
// CreatedAt is assigned by the server when the sample is accepted.
type Sample struct {
	Pressure    []float64 `json:"pressure"`
	Temperature []float64 `json:"temperature"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Clone returns a deep copy so callers can't mutate readings already handed to the log.
func (s Sample) Clone() Sample {
	out := Sample{CreatedAt: s.CreatedAt}
	if s.Pressure != nil {
		out.Pressure = append([]float64(nil), s.Pressure...)
	}
	if s.Temperature != nil {
		out.Temperature = append([]float64(nil), s.Temperature...)
	}
	return out
}
