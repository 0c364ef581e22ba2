// Package analytics provides read-only data collaborators for the
// FarmCore dashboard: water usage history and current weather.
//
// Usage history is served from the local time-series store. A farm
// with no recorded samples yet gets a synthesized series derived from
// the zones' cumulative usage counters so the dashboard chart is never
// empty; the response marks synthesized data explicitly.
//
// Weather is a mock provider. It returns deterministic values derived
// from the farm ID and the current hour, stable enough for dashboards
// and tests without a real weather service behind it.
package analytics
