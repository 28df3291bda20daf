package models

// Credentials is what the login prompt collects. Identifier is an e-mail
// address or a CPF.
type Credentials struct {
	Identifier string
	Password   string
}

// RegisterForm is collected by the register prompt.
type RegisterForm struct {
	Email           string
	Name            string
	Cpf             string
	Password        string
	ConfirmPassword string
}

// ProfileForm is collected by the edit-profile prompt. An empty Password
// means "keep the current one".
type ProfileForm struct {
	Email           string
	Name            string
	Cpf             string
	Password        string
	ConfirmPassword string
}
