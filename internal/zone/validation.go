package zone

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Validation constants.
const (
	maxNameLength     = 100
	maxCropTypeLength = 50
	maxSchedules      = 20
	maxRecommendation = 500
	startTimePattern  = `^([01][0-9]|2[0-3]):[0-5][0-9]$`
)

var startTimeRegex = regexp.MustCompile(startTimePattern)

// Pre-computed validation sets for O(1) lookups instead of O(n) linear search.
var (
	validStatuses      map[Status]struct{}
	validValveStatuses map[ValveStatus]struct{}
	validFrequencies   map[ScheduleFrequency]struct{}
)

func init() {
	// Build validation sets once at startup
	validStatuses = make(map[Status]struct{}, len(AllStatuses()))
	for _, s := range AllStatuses() {
		validStatuses[s] = struct{}{}
	}

	validValveStatuses = make(map[ValveStatus]struct{}, len(AllValveStatuses()))
	for _, v := range AllValveStatuses() {
		validValveStatuses[v] = struct{}{}
	}

	validFrequencies = make(map[ScheduleFrequency]struct{}, len(AllFrequencies()))
	for _, f := range AllFrequencies() {
		validFrequencies[f] = struct{}{}
	}
}

// ValidateZone performs comprehensive validation on a zone.
// Returns an error describing the first validation failure found.
func ValidateZone(z *IrrigationZone) error {
	if z == nil {
		return ErrInvalidZone
	}

	if err := ValidateName(z.Name); err != nil {
		return err
	}

	if z.FarmID == "" {
		return fmt.Errorf("%w: farm id is required", ErrInvalidZone)
	}

	if z.Area <= 0 {
		return fmt.Errorf("%w: area must be greater than zero", ErrInvalidZone)
	}

	cropType := strings.TrimSpace(z.CropType)
	if cropType == "" {
		return fmt.Errorf("%w: crop type cannot be empty", ErrInvalidZone)
	}
	if len(cropType) > maxCropTypeLength {
		return fmt.Errorf("%w: crop type exceeds %d characters", ErrInvalidZone, maxCropTypeLength)
	}

	if err := ValidateCoordinates(z.Coordinates); err != nil {
		return err
	}

	if z.FlowRate <= 0 {
		return fmt.Errorf("%w: flow rate must be greater than zero", ErrInvalidZone)
	}

	if err := ValidateStatus(z.Status); err != nil {
		return err
	}
	if err := ValidateValveStatus(z.ValveStatus); err != nil {
		return err
	}

	// Valve position must agree with the lifecycle status: an active zone
	// is delivering water, an inactive one cannot be.
	if z.Status == StatusActive && z.ValveStatus == ValveClosed {
		return fmt.Errorf("%w: an active zone cannot have a closed valve", ErrInvalidZone)
	}
	if z.Status == StatusInactive && z.ValveStatus != ValveClosed {
		return fmt.Errorf("%w: an inactive zone must have a closed valve", ErrInvalidZone)
	}

	if err := validateTelemetry(z); err != nil {
		return err
	}

	if len(z.Schedule) > maxSchedules {
		return fmt.Errorf("%w: too many schedules (max %d)", ErrInvalidSchedule, maxSchedules)
	}
	for i := range z.Schedule {
		if err := ValidateSchedule(&z.Schedule[i]); err != nil {
			return fmt.Errorf("schedule %d: %w", i, err)
		}
	}

	for _, rec := range z.Recommendations {
		if len(rec) > maxRecommendation {
			return fmt.Errorf("%w: recommendation exceeds %d characters", ErrInvalidZone, maxRecommendation)
		}
	}

	return nil
}

// validateTelemetry checks sensor and accounting fields are within bounds.
func validateTelemetry(z *IrrigationZone) error {
	if z.SoilMoisture < 0 || z.SoilMoisture > 100 {
		return fmt.Errorf("%w: soil moisture must be between 0 and 100", ErrInvalidZone)
	}
	if z.Humidity < 0 || z.Humidity > 100 {
		return fmt.Errorf("%w: humidity must be between 0 and 100", ErrInvalidZone)
	}
	if z.SensorBattery < 0 || z.SensorBattery > 100 {
		return fmt.Errorf("%w: sensor battery must be between 0 and 100", ErrInvalidZone)
	}
	if z.Temperature < -50 || z.Temperature > 60 {
		return fmt.Errorf("%w: temperature must be between -50 and 60", ErrInvalidZone)
	}
	if z.Pressure < 0 {
		return fmt.Errorf("%w: pressure cannot be negative", ErrInvalidZone)
	}
	if z.WaterUsage < 0 {
		return fmt.Errorf("%w: water usage cannot be negative", ErrInvalidZone)
	}
	if z.Efficiency < 0 || z.Efficiency > 100 {
		return fmt.Errorf("%w: efficiency must be between 0 and 100", ErrInvalidZone)
	}
	return nil
}

// ValidateName checks if a zone name is valid.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidZone)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidZone, maxNameLength)
	}
	return nil
}

// ValidateCoordinates checks latitude and longitude ranges.
func ValidateCoordinates(c Coordinates) error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidZone)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidZone)
	}
	return nil
}

// ValidateStatus checks if a status is valid.
// Uses O(1) map lookup for efficiency.
func ValidateStatus(status Status) error {
	if _, ok := validStatuses[status]; ok {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
}

// ValidateValveStatus checks if a valve status is valid.
// Uses O(1) map lookup for efficiency.
func ValidateValveStatus(valve ValveStatus) error {
	if _, ok := validValveStatuses[valve]; ok {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidValveStatus, valve)
}

// ValidateSchedule checks a single schedule entry.
func ValidateSchedule(s *IrrigationSchedule) error {
	if s == nil {
		return ErrInvalidSchedule
	}
	if !startTimeRegex.MatchString(s.StartTime) {
		return fmt.Errorf("%w: start time must be HH:MM", ErrInvalidSchedule)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("%w: duration must be greater than zero", ErrInvalidSchedule)
	}
	if _, ok := validFrequencies[s.Frequency]; !ok {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, s.Frequency)
	}
	for _, day := range s.DaysOfWeek {
		if day < 0 || day > 6 {
			return fmt.Errorf("%w: day of week must be between 0 and 6", ErrInvalidSchedule)
		}
	}
	if s.Conditions != nil {
		if err := validateConditions(s.Conditions); err != nil {
			return err
		}
	}
	return nil
}

// validateConditions checks schedule condition bounds.
func validateConditions(c *ScheduleConditions) error {
	if c.MinMoisture != nil && (*c.MinMoisture < 0 || *c.MinMoisture > 100) {
		return fmt.Errorf("%w: min moisture must be between 0 and 100", ErrInvalidSchedule)
	}
	if c.MaxMoisture != nil && (*c.MaxMoisture < 0 || *c.MaxMoisture > 100) {
		return fmt.Errorf("%w: max moisture must be between 0 and 100", ErrInvalidSchedule)
	}
	if c.MinMoisture != nil && c.MaxMoisture != nil && *c.MinMoisture > *c.MaxMoisture {
		return fmt.Errorf("%w: min moisture exceeds max moisture", ErrInvalidSchedule)
	}
	if c.MinTemperature != nil && c.MaxTemperature != nil && *c.MinTemperature > *c.MaxTemperature {
		return fmt.Errorf("%w: min temperature exceeds max temperature", ErrInvalidSchedule)
	}
	return nil
}

// GenerateID creates a new UUID for a zone or schedule.
func GenerateID() string {
	return uuid.New().String()
}
