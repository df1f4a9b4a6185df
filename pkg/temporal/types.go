package temporal

import (
	"go.temporal.io/sdk/client"
)

const DefaultNamespace = "portwatch"

const QueuePipeline = "pipeline"

const ScheduleDaily = "portwatch:daily"

// WorkflowIDDaily prefixes scheduled pipeline runs; the server appends the fire time.
const WorkflowIDDaily = "portwatch:medallion"

// DailySpec fires once a day at hour:minute in the given IANA zone.
func DailySpec(hour, minute int, timeZone string) client.ScheduleSpec {
	return client.ScheduleSpec{
		Calendars: []client.ScheduleCalendarSpec{{
			Hour:   []client.ScheduleRange{{Start: hour}},
			Minute: []client.ScheduleRange{{Start: minute}},
		}},
		TimeZoneName: timeZone,
	}
}
