// Package ids 는 세션 내 메시지 ID 를 발급한다.
// 같은 노드에서 발급한 ID 는 단조 증가하므로 메시지 순서와 ID 순서가 일치한다.
package ids

import (
	"hash/fnv"
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// SetNodeID 는 호스트 이름에서 유도한 노드 ID(0-1023)를 덮어쓴다. 기동 시 한 번 호출한다.
func SetNodeID(id int64) error {
	n, err := snowflake.NewNode(id & 0x3FF)
	if err != nil {
		return err
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

func current() *snowflake.Node {
	mu.Lock()
	defer mu.Unlock()
	if node != nil {
		return node
	}
	host, _ := os.Hostname()
	h := fnv.New32a()
	_, _ = h.Write([]byte(host))
	n, err := snowflake.NewNode(int64(h.Sum32()) & 0x3FF)
	if err != nil {
		n, _ = snowflake.NewNode(1)
	}
	node = n
	return node
}

// Next 는 새 메시지 ID 를 문자열로 반환한다.
func Next() string {
	return current().Generate().String()
}
