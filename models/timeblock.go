package models

import "fmt"

type Timeblock struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var HourlyTimeblocks = []Timeblock{
	{"A", "8:00 AM - 9:00 AM"},
	{"B", "9:00 AM - 10:00 AM"},
	{"C", "10:00 AM - 11:00 AM"},
	{"D", "11:00 AM - 12:00 PM"},
	{"E", "12:00 PM - 1:00 PM"},
	{"F", "1:00 PM - 2:00 PM"},
	{"G", "2:00 PM - 3:00 PM"},
	{"H", "3:00 PM - 4:00 PM"},
	{"I", "4:00 PM - 5:00 PM"},
}

var FortyMinuteTimeblocks = []Timeblock{
	{"A", "8:00 AM - 8:40 AM"},
	{"B", "8:40 AM - 9:20 AM"},
	{"C", "9:20 AM - 10:00 AM"},
	{"D", "10:00 AM - 10:40 AM"},
	{"E", "10:40 AM - 11:20 AM"},
	{"F", "11:20 AM - 12:00 PM"},
	{"G", "12:00 PM - 12:40 PM"},
	{"H", "12:40 PM - 1:20 PM"},
	{"I", "1:20 PM - 2:00 PM"},
	{"J", "2:00 PM - 2:40 PM"},
	{"K", "2:40 PM - 3:20 PM"},
	{"L", "3:20 PM - 4:00 PM"},
	{"M", "4:00 PM - 4:40 PM"},
	{"N", "4:40 PM - 5:20 PM"},
	{"O", "5:20 PM - 6:00 PM"},
	{"P", "6:00 PM - 6:40 PM"},
	{"Q", "6:40 PM - 7:20 PM"},
	{"R", "7:20 PM - 8:00 PM"},
}

// ActiveTimeblocks is the scheme slots are validated against. It is set once
// at startup through UseTimeblockScheme.
var ActiveTimeblocks = FortyMinuteTimeblocks

func UseTimeblockScheme(name string) error {
	switch name {
	case "hourly":
		ActiveTimeblocks = HourlyTimeblocks
	case "40min", "":
		ActiveTimeblocks = FortyMinuteTimeblocks
	default:
		return fmt.Errorf("unknown timeblock scheme %q", name)
	}
	return nil
}

func LookupTimeblock(code string) (Timeblock, bool) {
	for _, tb := range ActiveTimeblocks {
		if tb.Code == code {
			return tb, true
		}
	}
	return Timeblock{}, false
}

func TimeblockLabel(code string) string {
	if tb, ok := LookupTimeblock(code); ok {
		return tb.Label
	}
	return code
}
