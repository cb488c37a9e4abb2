package models

import "time"

const TopicSandwichActions = "sandwich_actions"

// ActionEvent is the wire form of an Action written to output destinations.
type ActionEvent struct {
	Timestamp   int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	RunID       string `json:"runId" parquet:"name=runId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Replay      int64  `json:"replay" parquet:"name=replay,type=INT64"`
	Sequence    int64  `json:"sequence" parquet:"name=sequence,type=INT64"`
	EventType   string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	Label       string `json:"label" parquet:"name=label,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderNumber int32  `json:"orderNumber,omitempty" parquet:"name=orderNumber,type=INT32"`
	Clock       string `json:"clock" parquet:"name=clock,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// NewActionEvent stamps an action with its session and the replay it came
// from; every new order re-emits the whole day under a new replay number.
func NewActionEvent(runID string, replay int, a Action) ActionEvent {
	return ActionEvent{
		Timestamp:   a.Time.Unix(),
		RunID:       runID,
		Replay:      int64(replay),
		Sequence:    int64(a.Sequence),
		EventType:   string(a.Kind),
		Label:       a.Kind.Label(),
		OrderNumber: int32(a.OrderNumber),
		Clock:       FormatClock(a.Time),
	}
}

// FormatClock renders minute-of-hour and second, e.g. "07:00".
func FormatClock(t time.Time) string {
	return t.Format("04:05")
}
