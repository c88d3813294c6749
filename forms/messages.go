package forms

// User-facing validation messages. The UI language is Polish.
const (
	MsgRequired         = "To pole jest wymagane"
	MsgInvalidEmail     = "Nieprawidłowy adres email"
	MsgPasswordTooShort = "Hasło musi mieć co najmniej 8 znaków"
	MsgPasswordWeak     = "Hasło musi zawierać wielką literę i cyfrę"
	MsgPasswordMismatch = "Hasła nie są zgodne"
	MsgTextTooShort     = "Tekst musi mieć co najmniej 1000 znaków"
	MsgTextTooLong      = "Tekst nie może przekraczać 10000 znaków"
	MsgFrontTooLong     = "Przód fiszki nie może przekraczać 200 znaków"
	MsgBackTooLong      = "Tył fiszki nie może przekraczać 500 znaków"
	MsgGenericInvalid   = "Formularz zawiera błędy"
)

func messageFor(field, tag, param string) string {
	switch tag {
	case "required":
		return MsgRequired
	case "email":
		return MsgInvalidEmail
	case "strongpw":
		return MsgPasswordWeak
	case "eqfield":
		return MsgPasswordMismatch
	case "min":
		switch field {
		case "Password":
			return MsgPasswordTooShort
		case "SourceText":
			return MsgTextTooShort
		}
	case "max":
		switch field {
		case "SourceText":
			return MsgTextTooLong
		case "Front":
			return MsgFrontTooLong
		case "Back":
			return MsgBackTooLong
		}
	}
	return MsgGenericInvalid
}
