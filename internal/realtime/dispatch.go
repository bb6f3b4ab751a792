package realtime

import (
	"strconv"

	"incubation_tracker/internal/models"
)

// Status panel defaults, as shown by the dashboard.
const (
	DefaultConnectionStatus = "OK"
	DefaultPowerStatus      = "Estável"
	DefaultSecurityStatus   = "Ativa"
)

// Display renders live values. Implementations must be safe for use from the
// client's read goroutine.
type Display interface {
	ShowTemperature(models.Gauge)
	ShowHumidity(models.Gauge)
	ShowTurnStatus(string)
	ShowSystemStatus(models.SystemStatus)
}

// Notifier raises a user-facing notification. Fire and forget.
type Notifier interface {
	Notify(title, message string, kind models.NotificationKind)
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// TemperatureFill maps 35–38 °C onto 0–100 %.
func TemperatureFill(t float64) float64 { return clampPercent((t - 35) / 3 * 100) }

// HumidityFill maps 50–60 % onto 0–100 %.
func HumidityFill(h float64) float64 { return clampPercent((h - 50) / 10 * 100) }

func formatReading(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// TemperatureGauge builds the displayed temperature and its fill width.
func TemperatureGauge(t float64) models.Gauge {
	return models.Gauge{Text: formatReading(t), Value: t, FillPercent: TemperatureFill(t)}
}

// HumidityGauge builds the displayed humidity and its fill width.
func HumidityGauge(h float64) models.Gauge {
	return models.Gauge{Text: formatReading(h), Value: h, FillPercent: HumidityFill(h)}
}

// ResolveSystemStatus applies the panel defaults to missing or empty fields.
func ResolveSystemStatus(p SystemStatusPayload) models.SystemStatus {
	s := models.SystemStatus{
		Connection: p.Connection,
		Power:      p.Power,
		Security:   p.Security,
	}
	if s.Connection == "" {
		s.Connection = DefaultConnectionStatus
	}
	if s.Power == "" {
		s.Power = DefaultPowerStatus
	}
	if s.Security == "" {
		s.Security = DefaultSecurityStatus
	}
	return s
}

// Dispatch applies each present field of msg independently.
func Dispatch(msg Message, display Display, notifier Notifier) {
	if display != nil {
		if msg.Temperature != nil {
			display.ShowTemperature(TemperatureGauge(*msg.Temperature))
		}
		if msg.Humidity != nil {
			display.ShowHumidity(HumidityGauge(*msg.Humidity))
		}
		if msg.TurnStatus != nil {
			display.ShowTurnStatus(*msg.TurnStatus)
		}
		if msg.SystemStatus != nil {
			display.ShowSystemStatus(ResolveSystemStatus(*msg.SystemStatus))
		}
	}
	if notifier != nil {
		for _, a := range msg.Alerts {
			kind := a.Type
			if kind == "" {
				kind = models.KindWarning
			}
			notifier.Notify(a.Title, a.Message, kind)
		}
	}
}
