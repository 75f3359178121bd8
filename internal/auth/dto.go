package auth

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if d.Username == "" {
		return ValidationError{Msg: "username is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

// CSRFTokenDTO carries a token presented for validation.
type CSRFTokenDTO struct {
	Token string `json:"token"`
}

func (d CSRFTokenDTO) Validate() error {
	if d.Token == "" {
		return ValidationError{Msg: "token is required"}
	}
	return nil
}
