//go:build !cgo

package watch

func keyEvents() (<-chan keyEvent, func(), error) {
	return nil, nil, ErrHookUnavailable
}
