package calculator

// Result strings shown to the user.
const (
	MsgFactorialInvalid = "Invalid input or too large number"
	MsgPrimeInvalid     = "Invalid input or not a prime"
	MsgInvalidInput     = "Invalid input"
	MsgPrime            = "Prime"
	MsgNotPrime         = "Not prime"
	MsgTimeout          = "An error has occurred. Please try again."
)

// IsProblem reports whether v is one of the messages posted instead of a
// result.
func IsProblem(v string) bool {
	switch v {
	case MsgFactorialInvalid, MsgPrimeInvalid, MsgInvalidInput, MsgTimeout:
		return true
	}
	return false
}
