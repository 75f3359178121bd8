package garage

// CreateGarageDTO is the payload for registering a new tenant.
type CreateGarageDTO struct {
	Name      string `json:"name"`
	OwnerName string `json:"owner_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

type UpdateGarageDTO struct {
	Name      *string `json:"name,omitempty"`
	OwnerName *string `json:"owner_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Address   *string `json:"address,omitempty"`
	Status    *string `json:"status,omitempty"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateGarageDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	if len(d.Name) > 200 {
		return ValidationError{Msg: "name must not exceed 200 characters"}
	}
	return nil
}

func (d UpdateGarageDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return ValidationError{Msg: "name cannot be empty"}
	}
	if d.Status != nil && *d.Status != StatusActive && *d.Status != StatusSuspended {
		return ValidationError{Msg: "status must be active or suspended"}
	}
	return nil
}
