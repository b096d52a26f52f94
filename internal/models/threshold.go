package models

// Threshold is the maximum allowed value for one sensor channel.
type Threshold struct {
	Sensor   string  `json:"sensor"`
	MaxValue float64 `json:"maxValue"`
}
