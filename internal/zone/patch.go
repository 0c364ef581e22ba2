package zone

import "time"

// Patch holds a partial update for a zone. Nil fields are left untouched.
// Administrative status changes (maintenance, error) come through here,
// never through the controller's start/stop/pause commands.
type Patch struct {
	Name            *string               `json:"name,omitempty"`
	Area            *float64              `json:"area,omitempty"`
	CropType        *string               `json:"cropType,omitempty"`
	Coordinates     *Coordinates          `json:"coordinates,omitempty"`
	Status          *Status               `json:"status,omitempty"`
	ValveStatus     *ValveStatus          `json:"valveStatus,omitempty"`
	SoilMoisture    *float64              `json:"soilMoisture,omitempty"`
	Temperature     *float64              `json:"temperature,omitempty"`
	Humidity        *float64              `json:"humidity,omitempty"`
	SensorBattery   *float64              `json:"sensorBattery,omitempty"`
	Pressure        *float64              `json:"pressure,omitempty"`
	FlowRate        *float64              `json:"flowRate,omitempty"`
	NextScheduled   *time.Time            `json:"nextScheduled,omitempty"`
	Schedule        *[]IrrigationSchedule `json:"schedule,omitempty"`
	Efficiency      *float64              `json:"efficiency,omitempty"`
	Recommendations *[]string             `json:"recommendations,omitempty"`
}

// Apply merges the patch into the zone. The caller validates the merged
// record afterwards; Apply itself performs no checks.
func (p *Patch) Apply(z *IrrigationZone) {
	if p.Name != nil {
		z.Name = *p.Name
	}
	if p.Area != nil {
		z.Area = *p.Area
	}
	if p.CropType != nil {
		z.CropType = *p.CropType
	}
	if p.Coordinates != nil {
		z.Coordinates = *p.Coordinates
	}
	if p.Status != nil {
		z.Status = *p.Status
	}
	if p.ValveStatus != nil {
		z.ValveStatus = *p.ValveStatus
	}
	if p.SoilMoisture != nil {
		z.SoilMoisture = *p.SoilMoisture
	}
	if p.Temperature != nil {
		z.Temperature = *p.Temperature
	}
	if p.Humidity != nil {
		z.Humidity = *p.Humidity
	}
	if p.SensorBattery != nil {
		z.SensorBattery = *p.SensorBattery
	}
	if p.Pressure != nil {
		z.Pressure = *p.Pressure
	}
	if p.FlowRate != nil {
		z.FlowRate = *p.FlowRate
	}
	if p.NextScheduled != nil {
		t := *p.NextScheduled
		z.NextScheduled = &t
	}
	if p.Schedule != nil {
		z.Schedule = make([]IrrigationSchedule, len(*p.Schedule))
		copy(z.Schedule, *p.Schedule)
		for i := range z.Schedule {
			if z.Schedule[i].ID == "" {
				z.Schedule[i].ID = GenerateID()
			}
		}
	}
	if p.Efficiency != nil {
		z.Efficiency = *p.Efficiency
	}
	if p.Recommendations != nil {
		z.Recommendations = make([]string, len(*p.Recommendations))
		copy(z.Recommendations, *p.Recommendations)
	}
}
