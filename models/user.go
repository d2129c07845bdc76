package models

// CurrentUser 는 호스트가 전달한 로그인 사용자 정보다.
type CurrentUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Viewer 는 한 요청 시점의 호스트 신호(로그인 상태, 사용자, 언어)다.
// 인사 메시지 문구와 모델 프롬프트가 이 값을 기준으로 만들어진다.
type Viewer struct {
	User     *CurrentUser
	Language string
}

func (v Viewer) LoggedIn() bool {
	return v.User != nil
}

// SameGreeting 은 두 Viewer 가 같은 인사 문구를 만들어내는지 비교한다.
func (v Viewer) SameGreeting(other Viewer) bool {
	if v.Language != other.Language || v.LoggedIn() != other.LoggedIn() {
		return false
	}
	if v.User == nil {
		return true
	}
	return v.User.Name == other.User.Name
}
