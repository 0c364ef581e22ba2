package zone

import "time"

// IrrigationZone represents one physical irrigation area on a farm.
// This matches the database schema in migrations/20260815_120000_initial_schema.up.sql.
//
// JSON field names are camelCase because the dashboard and mobile clients
// consume these records directly.
type IrrigationZone struct {
	// Identity
	ID     string `json:"id"`
	FarmID string `json:"farmId"`

	// Descriptive
	Name        string      `json:"name"`
	Area        float64     `json:"area"` // hectares
	CropType    string      `json:"cropType"`
	Coordinates Coordinates `json:"coordinates"`

	// Operational state
	Status      Status      `json:"status"`
	ValveStatus ValveStatus `json:"valveStatus"`

	// Sensor telemetry
	SoilMoisture  float64 `json:"soilMoisture"`  // percent
	Temperature   float64 `json:"temperature"`   // celsius
	Humidity      float64 `json:"humidity"`      // percent
	SensorBattery float64 `json:"sensorBattery"` // percent
	Pressure      float64 `json:"pressure"`      // bar
	FlowRate      float64 `json:"flowRate"`      // litres per minute

	// Scheduling
	LastWatered   *time.Time           `json:"lastWatered,omitempty"`
	NextScheduled *time.Time           `json:"nextScheduled,omitempty"`
	Schedule      []IrrigationSchedule `json:"schedule"`

	// Accounting and advisory
	WaterUsage      float64  `json:"waterUsage"` // cumulative litres
	Efficiency      float64  `json:"efficiency"` // percent
	Recommendations []string `json:"recommendations,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Coordinates is the zone's geographic centre point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IrrigationSchedule is a recurring watering rule owned by exactly one zone.
// Schedules are stored data only; evaluation and firing happen elsewhere.
type IrrigationSchedule struct {
	ID         string              `json:"id"`
	StartTime  string              `json:"startTime"` // "HH:MM" 24h
	Duration   int                 `json:"duration"`  // minutes
	Frequency  ScheduleFrequency   `json:"frequency"`
	DaysOfWeek []int               `json:"daysOfWeek,omitempty"` // 0=Sunday .. 6=Saturday
	Enabled    bool                `json:"enabled"`
	Conditions *ScheduleConditions `json:"conditions,omitempty"`
}

// ScheduleConditions gate a schedule on sensor readings and weather.
// Nil pointer fields mean "no constraint".
type ScheduleConditions struct {
	MinMoisture      *float64 `json:"minMoisture,omitempty"`
	MaxMoisture      *float64 `json:"maxMoisture,omitempty"`
	MinTemperature   *float64 `json:"minTemperature,omitempty"`
	MaxTemperature   *float64 `json:"maxTemperature,omitempty"`
	WeatherCondition *string  `json:"weatherCondition,omitempty"`
}

// DeepCopy creates a complete independent copy of the IrrigationZone.
// All slice and pointer fields are cloned so modifications to the copy
// do not affect the original. This is essential for cache isolation.
func (z *IrrigationZone) DeepCopy() *IrrigationZone {
	if z == nil {
		return nil
	}

	cpy := *z // Shallow copy of value fields

	if z.LastWatered != nil {
		t := *z.LastWatered
		cpy.LastWatered = &t
	}
	if z.NextScheduled != nil {
		t := *z.NextScheduled
		cpy.NextScheduled = &t
	}

	if z.Schedule != nil {
		cpy.Schedule = make([]IrrigationSchedule, len(z.Schedule))
		for i := range z.Schedule {
			cpy.Schedule[i] = z.Schedule[i].deepCopy()
		}
	}

	if z.Recommendations != nil {
		cpy.Recommendations = make([]string, len(z.Recommendations))
		copy(cpy.Recommendations, z.Recommendations)
	}

	return &cpy
}

// deepCopy clones a schedule including its nested slices and pointers.
func (s IrrigationSchedule) deepCopy() IrrigationSchedule {
	cpy := s

	if s.DaysOfWeek != nil {
		cpy.DaysOfWeek = make([]int, len(s.DaysOfWeek))
		copy(cpy.DaysOfWeek, s.DaysOfWeek)
	}

	if s.Conditions != nil {
		cond := ScheduleConditions{}
		if s.Conditions.MinMoisture != nil {
			v := *s.Conditions.MinMoisture
			cond.MinMoisture = &v
		}
		if s.Conditions.MaxMoisture != nil {
			v := *s.Conditions.MaxMoisture
			cond.MaxMoisture = &v
		}
		if s.Conditions.MinTemperature != nil {
			v := *s.Conditions.MinTemperature
			cond.MinTemperature = &v
		}
		if s.Conditions.MaxTemperature != nil {
			v := *s.Conditions.MaxTemperature
			cond.MaxTemperature = &v
		}
		if s.Conditions.WeatherCondition != nil {
			v := *s.Conditions.WeatherCondition
			cond.WeatherCondition = &v
		}
		cpy.Conditions = &cond
	}

	return cpy
}

// ApplyDefaults fills lifecycle defaults for a newly created zone.
// A new zone always starts idle with a full sensor battery.
func (z *IrrigationZone) ApplyDefaults() {
	if z.Status == "" {
		z.Status = StatusInactive
	}
	if z.ValveStatus == "" {
		z.ValveStatus = ValveClosed
	}
	if z.SensorBattery == 0 {
		z.SensorBattery = 100
	}
	if z.Schedule == nil {
		z.Schedule = []IrrigationSchedule{}
	}
}

// Status represents the operational state of a zone.
type Status string

// Status constants.
//
// paused is deliberately distinct from scheduled: a paused zone keeps its
// valve partially open and resumes where it left off, while a scheduled
// zone is waiting for its next window with the valve closed.
const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusScheduled   Status = "scheduled"
	StatusPaused      Status = "paused"
	StatusMaintenance Status = "maintenance"
	StatusError       Status = "error"
)

// AllStatuses returns all valid zone status values.
func AllStatuses() []Status {
	return []Status{
		StatusActive, StatusInactive, StatusScheduled,
		StatusPaused, StatusMaintenance, StatusError,
	}
}

// ValveStatus represents the physical valve position for a zone.
type ValveStatus string

// ValveStatus constants.
const (
	ValveOpen    ValveStatus = "open"
	ValveClosed  ValveStatus = "closed"
	ValvePartial ValveStatus = "partial"
)

// AllValveStatuses returns all valid valve status values.
func AllValveStatuses() []ValveStatus {
	return []ValveStatus{ValveOpen, ValveClosed, ValvePartial}
}

// ScheduleFrequency represents how often a schedule recurs.
type ScheduleFrequency string

// ScheduleFrequency constants.
const (
	FrequencyDaily    ScheduleFrequency = "daily"
	FrequencyWeekly   ScheduleFrequency = "weekly"
	FrequencyBiWeekly ScheduleFrequency = "bi-weekly"
	FrequencyCustom   ScheduleFrequency = "custom"
)

// AllFrequencies returns all valid schedule frequency values.
func AllFrequencies() []ScheduleFrequency {
	return []ScheduleFrequency{
		FrequencyDaily, FrequencyWeekly, FrequencyBiWeekly, FrequencyCustom,
	}
}
