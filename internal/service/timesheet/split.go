package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

// SplitHours divides an entry's hours into regular and overtime.
//
// The weekly threshold wins over the daily one: when the running week total
// plus this entry crosses the weekly threshold, only the hours up to that
// threshold count as regular. Otherwise a single long day is split at the
// daily threshold. The week runs Sunday through Saturday and the running
// total counts submitted and approved siblings, excluding the entry itself.
func (s *Service) SplitHours(ctx context.Context, employeeID string, hours float64, workDate time.Time, excludeID string) (timesheet.HourSplit, error) {
	snapshot := s.settings.Snapshot(ctx)
	weekly := snapshot.Attendance.WeeklyWorkingHours
	daily := snapshot.Attendance.DailyWorkingHours

	weekStart := validator.StartOfWeek(workDate)
	weekEnd := weekStart.AddDate(0, 0, 6)

	weekTotal, err := s.timesheets.SumWeekHours(ctx, employeeID, weekStart, weekEnd, excludeID)
	if err != nil {
		return timesheet.HourSplit{}, fmt.Errorf("failed to sum week hours: %w", err)
	}

	if weekTotal+hours > weekly {
		regular := weekly - weekTotal
		if regular < 0 {
			regular = 0
		}
		if regular > hours {
			regular = hours
		}
		return timesheet.HourSplit{RegularHours: regular, OvertimeHours: hours - regular}, nil
	}

	if hours > daily {
		return timesheet.HourSplit{RegularHours: daily, OvertimeHours: hours - daily}, nil
	}

	return timesheet.HourSplit{RegularHours: hours, OvertimeHours: 0}, nil
}
