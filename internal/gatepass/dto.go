package gatepass

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type IssueGatePassDTO struct {
	JobCardID int64  `json:"job_card_id"`
	VehicleID int64  `json:"vehicle_id"`
	Remarks   string `json:"remarks,omitempty"`
}

func (d IssueGatePassDTO) Validate() error {
	if d.JobCardID <= 0 {
		return ValidationError{Msg: "job_card_id is required"}
	}
	if d.VehicleID <= 0 {
		return ValidationError{Msg: "vehicle_id is required"}
	}
	return nil
}
