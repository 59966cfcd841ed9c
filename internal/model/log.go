package model

// LogEntry is one row of the activity log.
type LogEntry struct {
	ID              int64  `json:"id"`
	ActorType       string `json:"actorType"`
	ActorName       string `json:"actorName"`
	UserID          int64  `json:"userId"`
	OperationType   string `json:"operationType"`
	TargetID        int64  `json:"targetId"`
	TargetName      string `json:"targetName"`
	OperationStatus string `json:"operationStatus"`
	Message         string `json:"message,omitempty"`
	Time            string `json:"time"`
}

// LogCount is an aggregated bucket returned by the activity counter.
type LogCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}
