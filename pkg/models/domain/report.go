package domain

import (
	"fmt"
	"time"
)

// Kind identifies a document kind.
type Kind string

const (
	KindEstimate      Kind = "estimate"
	KindInspection    Kind = "inspection"
	KindSchedule      Kind = "schedule"
	KindActivityLog   Kind = "activity-log"
	KindProjectReport Kind = "project-report"
)

// Kinds lists every supported document kind.
var Kinds = []Kind{KindEstimate, KindInspection, KindSchedule, KindActivityLog, KindProjectReport}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// Receipt describes a generated artifact after it has been persisted.
type Receipt struct {
	ProjectID   string
	Kind        Kind
	FileName    string
	Key         string
	Location    string
	Pages       int
	Bytes       int
	GeneratedAt time.Time
}
