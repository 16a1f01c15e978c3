package httperr

import "errors"

// ===============================
// Business Errors
// ===============================

// Kind clasifica el error de negocio. El caller siempre tiene que poder
// distinguir un conflicto reintentable de un pedido inválido.
type Kind string

const (
	KindConflict   Kind = "conflict"        // slot ya no está libre → re-fetch
	KindInvalid    Kind = "invalid_request" // input inválido o stale
	KindNotFound   Kind = "not_found"
	KindPolicy     Kind = "policy_violation"
	KindDependency Kind = "dependency_failure"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrInvalid(code string) error {
	return BusinessError{Kind: KindInvalid, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrPolicy(code string) error {
	return BusinessError{Kind: KindPolicy, Code: code}
}

func ErrDependency(code string) error {
	return BusinessError{Kind: KindDependency, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
