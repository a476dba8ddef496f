package forms

// RegisterForm is the credentials step of registration.
type RegisterForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required,emailshape"`
	Password string `validate:"required,min=8,haslower,hasdigit,hasspecial"`
}

var passwordMessages = map[string]string{
	"min":         "Password must be at least 8 characters long.",
	TagHasLower:   "Password must contain at least one lowercase letter.",
	TagHasDigit:   "Password must contain at least one number.",
	TagHasSpecial: "Password must contain at least one special character.",
}

// Validate checks, in order: all fields present, email shape, then each
// password rule. The first failure wins.
func (f RegisterForm) Validate() error {
	errs := fieldErrors(f)
	if errs == nil {
		return nil
	}
	if anyRequired(errs) {
		return invalid("All fields are required.")
	}
	if _, ok := firstFor(errs, "Email"); ok {
		return invalid("Please enter a valid email address.")
	}
	if fe, ok := firstFor(errs, "Password"); ok {
		return invalid(passwordMessages[fe.Tag()])
	}
	return invalid("All fields are required.")
}

type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func (f LoginForm) Validate() error {
	if fieldErrors(f) != nil {
		return invalid("Please fill in all fields")
	}
	return nil
}
