// Package catalog 는 호스트 카탈로그와 대체 카탈로그를 하나의 유효 카탈로그로 합치고 조회용 인덱스를 만든다.
package catalog

import (
	"errors"

	"peleman-chatbot/models"
)

// ErrEmptyCatalog 는 호스트가 성공 응답으로 빈 카탈로그를 돌려줬을 때의 오류다.
var ErrEmptyCatalog = errors.New("catalog: host returned an empty catalog")

// Catalog 는 카테고리와 상품 목록이다. 목록 순서가 곧 카탈로그 순서다.
type Catalog struct {
	Categories []models.Category `json:"categories" yaml:"categories"`
	Products   []models.Product  `json:"products" yaml:"products"`
}

// IsEmpty 는 카테고리와 상품이 모두 없는지 반환한다.
func (c Catalog) IsEmpty() bool {
	return len(c.Categories) == 0 && len(c.Products) == 0
}

// Resolve 는 호스트 카탈로그가 정상적으로 로드됐고 비어 있지 않을 때만 호스트 카탈로그를, 그 외에는 대체 카탈로그를 반환한다.
func Resolve(host Catalog, hostLoadSucceeded bool, fallback Catalog) Catalog {
	if hostLoadSucceeded && !host.IsEmpty() {
		return host
	}
	return fallback
}
