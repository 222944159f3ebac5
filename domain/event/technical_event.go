package event

import "time"

const (
	RestartedAfterPanicType Type = "WORKER_RESTARTED_AFTER_PANIC"
	ChannelCapacityType     Type = "CHANNEL_CAPACITY"
)

type WorkerRestartedAfterPanic struct {
	WorkerName string
}

// ChannelCapacity is a sample of an internal channel's fill level.
type ChannelCapacity struct {
	ChannelName string
	Capacity    int
	Length      int
}

func NewWorkerRestartedAfterPanic(workerName string) Event {
	return Event{Type: RestartedAfterPanicType, CreatedAt: time.Now().UTC(), Payload: WorkerRestartedAfterPanic{WorkerName: workerName}}
}

func NewChannelCapacity(name string, capacity, length int) Event {
	return Event{
		Type:      ChannelCapacityType,
		CreatedAt: time.Now().UTC(),
		Payload:   ChannelCapacity{ChannelName: name, Capacity: capacity, Length: length},
	}
}
