package customer

type CreateCustomerDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type UpdateCustomerDTO struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateCustomerDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	if d.Phone == "" && d.Email == "" {
		return ValidationError{Msg: "phone or email is required"}
	}
	return nil
}

func (d UpdateCustomerDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return ValidationError{Msg: "name cannot be empty"}
	}
	return nil
}
