package domain

type CheckpointResult string

const (
	ResultUnset         CheckpointResult = ""
	ResultOK            CheckpointResult = "ok"
	ResultDeviation     CheckpointResult = "deviation"
	ResultNotApplicable CheckpointResult = "not-applicable"
)

// Valid reports whether r is one of the known results, unset included.
func (r CheckpointResult) Valid() bool {
	switch r {
	case ResultUnset, ResultOK, ResultDeviation, ResultNotApplicable:
		return true
	}
	return false
}

// Checkpoint is one line of an inspection protocol. It is created unset and
// answered once, either by a person or by the interpretation service.
type Checkpoint struct {
	ID       string
	Text     string
	Required bool
	Result   CheckpointResult
	Comment  string
}

// InspectionSummary counts checkpoint outcomes.
type InspectionSummary struct {
	Total         int
	OK            int
	Deviations    int
	NotApplicable int
	Unset         int
	// RequiredOpen counts required checkpoints that are still unset.
	RequiredOpen int
}

func SummarizeCheckpoints(checkpoints []Checkpoint) InspectionSummary {
	s := InspectionSummary{Total: len(checkpoints)}
	for _, c := range checkpoints {
		switch c.Result {
		case ResultOK:
			s.OK++
		case ResultDeviation:
			s.Deviations++
		case ResultNotApplicable:
			s.NotApplicable++
		default:
			s.Unset++
			if c.Required {
				s.RequiredOpen++
			}
		}
	}
	return s
}
