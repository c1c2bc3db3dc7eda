package realtime

type EventType string

const (
	EventJobCreated  EventType = "jobcreated"
	EventJobProgress EventType = "jobprogress"
	EventJobFailed   EventType = "jobfailed"
	EventJobDone     EventType = "jobdone"
)

// Message is one job event as published on the bus. Channel is the job id so
// subscribers can follow a single import.
type Message struct {
	Channel string         `json:"channel"`
	Event   EventType      `json:"event"`
	Data    map[string]any `json:"data"`
}
