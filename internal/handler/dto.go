package handler

type StageResponse struct {
	Stored int64 `json:"stored"`
	Queued int64 `json:"queued"`
}

type StatusResponse struct {
	Instagram  StageResponse `json:"instagram"`
	Youtube    StageResponse `json:"youtube"`
	Candidates StageResponse `json:"candidates"`
	Places     int64         `json:"places"`
}
