package analytics

import "fmt"

// Period is one accrual period of a coupon schedule.
type Period struct {
	AccStart Date
	AccEnd   Date
	PayDate  Date
}

// Schedule builds the accrual periods between start and end. Unadjusted
// boundaries are rolled from the end opposite the stub; every boundary
// except the first accrual start is then adjusted on cal.
func Schedule(start, end Date, ivl Interval, stub StubMethod, conv BadDayConv, cal *Calendar) ([]Period, error) {
	if end <= start {
		return nil, fmt.Errorf("schedule end %s must be after start %s", end, start)
	}
	if ivl.Amount <= 0 {
		return nil, fmt.Errorf("schedule interval %s must be positive", ivl)
	}
	dates := rollDates(start, end, ivl, stub)
	periods := make([]Period, 0, len(dates)-1)
	prev := start
	for i := 1; i < len(dates); i++ {
		accEnd := dates[i]
		adj := cal.Adjust(accEnd, conv)
		if i < len(dates)-1 {
			accEnd = adj
		}
		periods = append(periods, Period{AccStart: prev, AccEnd: accEnd, PayDate: adj})
		prev = accEnd
	}
	return periods, nil
}

func rollDates(start, end Date, ivl Interval, stub StubMethod) []Date {
	var dates []Date
	if stub.Front {
		// roll back from end; each date is an offset of the anchor to avoid drift
		dates = append(dates, end)
		for k := 1; ; k++ {
			d := ivl.Scale(-k).AddTo(end)
			if d <= start {
				break
			}
			dates = append(dates, d)
		}
		dates = append(dates, start)
		reverse(dates)
		if stub.Long && len(dates) > 2 && stubIsShort(dates[0], dates[1], ivl) {
			dates = append(dates[:1], dates[2:]...)
		}
		return dates
	}
	dates = append(dates, start)
	for k := 1; ; k++ {
		d := ivl.Scale(k).AddTo(start)
		if d >= end {
			break
		}
		dates = append(dates, d)
	}
	dates = append(dates, end)
	n := len(dates)
	if stub.Long && n > 2 && stubIsShort(dates[n-2], dates[n-1], ivl) {
		dates = append(dates[:n-2], dates[n-1])
	}
	return dates
}

func stubIsShort(from, to Date, ivl Interval) bool {
	return ivl.AddTo(from) > to
}

func reverse(ds []Date) {
	for i, j := 0, len(ds)-1; i < j; i, j = i+1, j-1 {
		ds[i], ds[j] = ds[j], ds[i]
	}
}
