package identity

// Messages returned to clients on failed authentication
const (
	MsgInvalidToken         = "Invalid Token"
	MsgTokenNotExpired      = "This token hasn't expired yet"
	MsgRefreshNotFound      = "This refresh token does not exist"
	MsgRefreshExpired       = "This refresh token has expired"
	MsgRefreshInvalidated   = "This refresh token has been invalidated"
	MsgRefreshUsed          = "This refresh token has been used"
	MsgRefreshJwtMismatch   = "This refresh token does not match this JWT"
	MsgUserAlreadyExists    = "User with such email address already exists"
	MsgIncorrectCredentials = "Incorrect user email or password"
)

// FailureKind classifies a failed Result
type FailureKind int

const (
	// KindNone is the kind of a successful result
	KindNone FailureKind = iota
	// KindValidation means the input was rejected (password policy, email format)
	KindValidation
	// KindCredential means a wrong password, unknown user or duplicate email
	KindCredential
	// KindToken means the access token failed to parse
	KindToken
	// KindRefreshState means the refresh record or token timing did not allow a refresh
	KindRefreshState
)

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindCredential:
		return "credential"
	case KindToken:
		return "token"
	case KindRefreshState:
		return "refresh_state"
	default:
		return "unknown"
	}
}

// Result is the outcome of register, login or refresh.
// On success Token and RefreshToken are set and Errors is empty;
// on failure only Errors and Kind are set.
type Result struct {
	Token        string
	RefreshToken string
	Errors       []string
	Kind         FailureKind
	Success      bool
}

func succeeded(accessToken, refreshToken string) *Result {
	return &Result{
		Success:      true,
		Token:        accessToken,
		RefreshToken: refreshToken,
	}
}

func failed(kind FailureKind, messages ...string) *Result {
	return &Result{
		Kind:   kind,
		Errors: messages,
	}
}
