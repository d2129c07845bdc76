package session

import "errors"

var (
	// ErrInvalidDriver 는 지원하지 않는 저장소 드라이버 이름일 때 반환된다.
	ErrInvalidDriver = errors.New("session: invalid store driver")
	// ErrInvalidConfig 는 드라이버에 필요한 클라이언트가 주입되지 않았을 때 반환된다.
	ErrInvalidConfig = errors.New("session: invalid store configuration")
	// ErrMalformedRecord 는 저장된 값이 세션 레코드 형식이 아닐 때 반환된다.
	ErrMalformedRecord = errors.New("session: malformed record")
	// ErrNotFound 는 키에 저장된 값이 없을 때 반환된다.
	ErrNotFound = errors.New("session: not found")
)
