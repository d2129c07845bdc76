package eventbus

import (
	"strconv"
	"strings"
	"time"
)

// ParseRetryDelayFromTopicName 은 "<base>.retry.<n>" 형식 토픽 이름에서 RetryDelays[n-1] 을 꺼낸다.
func ParseRetryDelayFromTopicName(name string) (time.Duration, bool) {
	idx := strings.LastIndex(name, ".retry.")
	if idx == -1 || idx+7 >= len(name) {
		return 0, false
	}
	n, err := strconv.Atoi(name[idx+7:])
	if err != nil || n <= 0 || n > len(RetryDelays) {
		return 0, false
	}
	return RetryDelays[n-1], true
}
