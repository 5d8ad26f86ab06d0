package forms

import "net/http"

type RegisterForm struct {
	Email    string
	Password string
	Name     string
	Errors   Errors
}

func BindRegister(r *http.Request) (RegisterForm, error) {
	if err := parse(r); err != nil {
		return RegisterForm{}, err
	}
	return RegisterForm{
		Email:    field(r, "email"),
		Password: r.PostFormValue("password"),
		Name:     field(r, "name"),
	}, nil
}

func (f *RegisterForm) Validate() bool {
	f.Errors = Errors{}
	f.Errors.email("email", f.Email)
	if f.Errors.required("password", f.Password) {
		f.Errors.maxBytes("password", f.Password, MaxPasswordBytes, msgPasswordTooLong)
	}
	f.Errors.required("name", f.Name)
	return len(f.Errors) == 0
}

type LoginForm struct {
	Email    string
	Password string
	Errors   Errors
}

func BindLogin(r *http.Request) (LoginForm, error) {
	if err := parse(r); err != nil {
		return LoginForm{}, err
	}
	return LoginForm{
		Email:    field(r, "email"),
		Password: r.PostFormValue("password"),
	}, nil
}

func (f *LoginForm) Validate() bool {
	f.Errors = Errors{}
	f.Errors.email("email", f.Email)
	f.Errors.required("password", f.Password)
	return len(f.Errors) == 0
}
