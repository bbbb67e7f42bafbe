package building

import (
	"context"
	"strings"

	"github.com/oshokin/building-controller/internal/logger"
)

const (
	// LightsManagerName prefixes the lighting manager status line.
	LightsManagerName = "Lights"
	// DoorsManagerName prefixes the door manager status line.
	DoorsManagerName = "Doors"
	// FireAlarmManagerName prefixes the fire alarm manager status line.
	FireAlarmManagerName = "FireAlarm"

	// StatusOK marks a healthy device in a status line.
	StatusOK = "OK"
	// StatusFault marks a broken device in a status line.
	StatusFault = "FAULT"

	// statusSeparator separates the manager name and device tokens.
	statusSeparator = ","
)

// FormatStatus renders a manager status line: the name followed by one token per
// device, every element terminated by a comma.
func FormatStatus(managerName string, tokens []string) string {
	var b strings.Builder

	b.WriteString(managerName)
	b.WriteString(statusSeparator)

	for _, token := range tokens {
		b.WriteString(token)
		b.WriteString(statusSeparator)
	}

	return b.String()
}

// IsFaulty reports whether a status line indicates a fault: it is empty, does not
// start with the expected manager name, lacks the trailing comma, or contains any
// device token other than OK.
func IsFaulty(status, managerName string) bool {
	if status == "" || !strings.HasSuffix(status, statusSeparator) {
		return true
	}

	tokens := strings.Split(strings.TrimSuffix(status, statusSeparator), statusSeparator)
	if tokens[0] != managerName {
		return true
	}

	for _, token := range tokens[1:] {
		if token != StatusOK {
			return true
		}
	}

	return false
}

// engineerListing renders the names passed to the web service: a bare name for a
// single fault, otherwise every name followed by a comma.
func engineerListing(names []string) string {
	if len(names) == 1 {
		return names[0]
	}

	return strings.Join(names, statusSeparator) + statusSeparator
}

// managerStatus pairs a manager with the status it reported during a sweep.
type managerStatus struct {
	name    string
	status  string
	manager any
}

// StatusReport collects the status lines of the lighting, door and fire alarm
// managers and returns them concatenated in that order. Faulty managers are
// reported to the web service as requiring an engineer. The report is empty
// unless all three managers are bound.
func (c *Controller) StatusReport(ctx context.Context) string {
	if c.lights == nil || c.doors == nil || c.fireAlarm == nil {
		logger.Debug(ctx, "Status report skipped, not every manager is bound")

		return ""
	}

	var (
		lights    = managerStatus{LightsManagerName, c.lights.GetStatus(ctx), c.lights}
		doors     = managerStatus{DoorsManagerName, c.doors.GetStatus(ctx), c.doors}
		fireAlarm = managerStatus{FireAlarmManagerName, c.fireAlarm.GetStatus(ctx), c.fireAlarm}
	)

	var faulty []string

	for _, ms := range []managerStatus{lights, fireAlarm, doors} {
		if !IsFaulty(ms.status, ms.name) {
			continue
		}

		faulty = append(faulty, ms.name)

		if flagger, ok := ms.manager.(EngineerFlagger); ok {
			if err := flagger.SetEngineerRequired(ctx, true); err != nil {
				logger.WarnKV(ctx, "Failed to flag manager for engineer", "manager", ms.name, "error", err)
			}
		}
	}

	if len(faulty) > 0 {
		c.reportEngineerRequired(ctx, engineerListing(faulty))
	}

	return lights.status + doors.status + fireAlarm.status
}

// reportEngineerRequired forwards the faulty manager listing to the web service.
func (c *Controller) reportEngineerRequired(ctx context.Context, listing string) {
	logger.WarnKV(ctx, "Engineer required", "building_id", c.id, "managers", listing)

	if c.web == nil {
		return
	}

	if err := c.web.LogEngineerRequired(ctx, listing); err != nil {
		logger.ErrorKV(ctx, "Failed to log engineer request", "managers", listing, "error", err)
	}
}
